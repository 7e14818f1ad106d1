package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/scrape"
)

const (
	antiCrueltyStartURL = "https://anticruelty.org/adoptable"

	// Fallback cuando la página no trae los embeds de Shelterluv en
	// forma parseable.
	shelterluvDefaultDomain = "https://new.shelterluv.com"
	shelterluvDefaultID     = 100000846
)

var (
	// Los embeds se configuran en scripts inline con tres vars seguidas
	// de la llamada EmbedAvailablePets(...).
	embedConfigRE = regexp.MustCompile(
		`(?is)var\s+sourceDomain\s*=\s*['"]([^'"]+)['"]\s*;.*?` +
			`var\s+GID\s*=\s*(\d+)\s*;.*?` +
			`var\s+filters\s*=\s*(\{.*?\})\s*;.*?` +
			`EmbedAvailablePets\(`,
	)
	shelterluvDomainRE = regexp.MustCompile(`(?i)https?://[^"' ]*shelterluv\.com`)
)

// AntiCruelty scrapea Anti-Cruelty Society vía los embeds de Shelterluv:
// el listado sale de la API available-animals y cada perfil trae su
// payload JSON en el atributo :animal de un nodo iframe-animal.
type AntiCruelty struct {
	deps Deps
}

func NewAntiCruelty(deps Deps) *AntiCruelty {
	return &AntiCruelty{deps: deps}
}

func (a *AntiCruelty) Source() string { return SourceAntiCruelty }

type embedConfig struct {
	Domain    string
	ShelterID int
	Filters   map[string]string
}

func (a *AntiCruelty) ListActiveLinks(ctx context.Context, useCache bool) ([]string, error) {
	return listWithCache(ctx, a.deps, a.Source(), useCache, func(ctx context.Context) ([]string, error) {
		doc, err := a.deps.Client.GetHTML(ctx, antiCrueltyStartURL)
		if err != nil {
			return nil, err
		}

		seen := map[string]struct{}{}
		var out []string
		for _, cfg := range extractEmbedConfigs(doc) {
			animals, err := a.fetchAnimals(ctx, cfg)
			if err != nil {
				return nil, err
			}
			for _, animal := range animals {
				if !isAdoptable(animal["adoptable"]) {
					continue
				}
				url := publicURLForAnimal(animal, cfg.Domain)
				if url == "" {
					continue
				}
				if _, ok := seen[url]; ok {
					continue
				}
				seen[url] = struct{}{}
				out = append(out, url)
			}
		}
		return out, nil
	})
}

func (a *AntiCruelty) fetchAnimals(ctx context.Context, cfg embedConfig) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/api/v3/available-animals/%d", strings.TrimRight(cfg.Domain, "/"), cfg.ShelterID)

	var payload struct {
		Animals []map[string]any `json:"animals"`
	}
	if err := a.deps.Client.GetJSON(ctx, endpoint, cfg.Filters, &payload); err != nil {
		return nil, err
	}
	return payload.Animals, nil
}

func (a *AntiCruelty) FetchProfile(ctx context.Context, url string) (profiles.Profile, error) {
	a.deps.Log.Info("fetching pet profile", map[string]any{"source": a.Source(), "url": url})

	doc, err := a.deps.Client.GetHTML(ctx, url)
	if err != nil {
		return profiles.Profile{}, &FetchError{Source: a.Source(), URL: url, Err: err}
	}

	node := doc.Find("iframe-animal").First()
	if node.Length() == 0 {
		return profiles.Profile{}, &ParseError{Source: a.Source(), URL: url, Err: fmt.Errorf("missing shelterluv animal node")}
	}
	rawAnimal, _ := node.Attr(":animal")
	rawAnimal = strings.TrimSpace(rawAnimal)
	if rawAnimal == "" {
		return profiles.Profile{}, &ParseError{Source: a.Source(), URL: url, Err: fmt.Errorf("missing :animal payload")}
	}

	var animal map[string]any
	if err := json.Unmarshal([]byte(rawAnimal), &animal); err != nil {
		// goquery no des-escapa entities dentro de atributos en todos los
		// casos; segundo intento sobre el texto des-escapado.
		if err2 := json.Unmarshal([]byte(html.UnescapeString(rawAnimal)), &animal); err2 != nil {
			return profiles.Profile{}, &ParseError{Source: a.Source(), URL: url, Err: fmt.Errorf("invalid animal payload: %w", err2)}
		}
	}

	petID, ok := extractShelterluvID(animal, url)
	if !ok {
		return profiles.Profile{}, &ParseError{Source: a.Source(), URL: url, Err: fmt.Errorf("missing numeric pet id")}
	}

	now := a.deps.now().UTC()
	ageGroup := ageGroupFromPayload(animal["age_group"])
	birthdayAge := scrape.AgeFromBirthday(anyToString(animal["birthday"]), now)

	ageMonths := birthdayAge
	if ageMonths == nil {
		ageMonths = scrape.AgeFromAgeGroup(ageGroup)
	}
	ageRaw := scrape.FormatAgeMonths(birthdayAge)
	if ageRaw == "" {
		ageRaw = scrape.AgeRawFromAgeGroup(ageGroup)
	}

	weightRaw := anyToString(animal["weight"])
	if weightRaw == "" {
		weightRaw = anyToString(animal["weight_group"])
	}

	status := "Available"
	if adoptable, present := animal["adoptable"]; present && !isAdoptable(adoptable) {
		status = "Unavailable"
	}

	profile := profiles.Profile{
		PetID:       petID,
		Species:     profiles.NormalizeSpecies(anyToString(animal["species"])),
		URL:         url,
		Name:        scrape.CleanText(anyToString(animal["name"])),
		Breed:       scrape.CleanText(anyToString(animal["breed"])),
		Gender:      scrape.CleanText(anyToString(animal["sex"])),
		AgeRaw:      ageRaw,
		AgeMonths:   ageMonths,
		WeightLbs:   scrape.ParseWeightLbs(weightRaw),
		Location:    scrape.CleanText(anyToString(animal["location"])),
		Status:      status,
		Description: shelterluvDescription(animal["kennel_description"]),
		Media: profiles.Media{
			Images: shelterluvPhotos(animal["photos"]),
			Videos: shelterluvVideos(animal["videos"]),
		},
	}

	out, err := profiles.New(profile, a.deps.Now)
	if err != nil {
		return profiles.Profile{}, &ParseError{Source: a.Source(), URL: url, Err: err}
	}
	return out, nil
}

// extractEmbedConfigs saca las configs únicas de los scripts inline.
// Sin configs parseables, cae al dominio inferido del texto de la página
// (o al default) con el shelter id por defecto y orden random.
func extractEmbedConfigs(doc *goquery.Document) []embedConfig {
	var configs []embedConfig
	seen := map[string]struct{}{}

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if !strings.Contains(text, "EmbedAvailablePets") {
			return
		}
		for _, m := range embedConfigRE.FindAllStringSubmatch(text, -1) {
			domain := strings.TrimRight(strings.TrimSpace(m[1]), "/")
			shelterID := mustAtoi(m[2])
			filters := parseEmbedFilters(m[3])

			sig := configSignature(domain, shelterID, filters)
			if _, ok := seen[sig]; ok {
				continue
			}
			seen[sig] = struct{}{}
			configs = append(configs, embedConfig{Domain: domain, ShelterID: shelterID, Filters: filters})
		}
	})

	if len(configs) > 0 {
		return configs
	}

	domain := shelterluvDefaultDomain
	if m := shelterluvDomainRE.FindString(doc.Text()); m != "" {
		domain = strings.TrimRight(strings.TrimSpace(m), "/")
	}
	return []embedConfig{{
		Domain:    domain,
		ShelterID: shelterluvDefaultID,
		Filters:   map[string]string{"defaultSort": "random"},
	}}
}

// parseEmbedFilters parsea el objeto filters del script. Los scripts
// suelen usar comillas simples; segundo intento con comillas normalizadas.
func parseEmbedFilters(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]string{}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		normalized := strings.ReplaceAll(raw, "'", `"`)
		if err2 := json.Unmarshal([]byte(normalized), &parsed); err2 != nil {
			return map[string]string{}
		}
	}

	out := make(map[string]string, len(parsed))
	for k, v := range parsed {
		out[k] = anyToString(v)
	}
	return out
}

func configSignature(domain string, shelterID int, filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d", domain, shelterID)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, filters[k])
	}
	return b.String()
}

// isAdoptable: false, 0 y "0" son no-adoptable; cualquier otra cosa
// (incluido ausente) cuenta como adoptable.
func isAdoptable(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "0" && strings.ToLower(t) != "false"
	default:
		return true
	}
}

func publicURLForAnimal(animal map[string]any, domain string) string {
	if url := strings.TrimSpace(anyToString(animal["public_url"])); url != "" {
		return url
	}
	if uid := strings.TrimSpace(anyToString(animal["uniqueId"])); uid != "" {
		return strings.TrimRight(domain, "/") + "/embed/animal/" + uid
	}
	return ""
}

// extractShelterluvID prueba el sufijo numérico del uniqueId y de la URL
// ("ACS-A-12345" → 12345) y cae al nid del payload.
func extractShelterluvID(animal map[string]any, url string) (int, bool) {
	for _, candidate := range []string{anyToString(animal["uniqueId"]), url} {
		if id, ok := scrape.NumericSuffix(candidate); ok {
			return id, true
		}
	}
	if id, ok := anyToInt(animal["nid"]); ok && id > 0 {
		return id, true
	}
	return 0, false
}

func ageGroupFromPayload(raw any) scrape.AgeGroup {
	m, ok := raw.(map[string]any)
	if !ok {
		return scrape.AgeGroup{}
	}
	return scrape.AgeGroup{
		AgeFrom:          anyToFloat(m["age_from"]),
		AgeTo:            anyToFloat(m["age_to"]),
		FromUnit:         anyToString(m["from_unit"]),
		ToUnit:           anyToString(m["to_unit"]),
		Name:             anyToString(m["name"]),
		Duration:         anyToString(m["duration"]),
		NameWithDuration: anyToString(m["name_with_duration"]),
	}
}

// shelterluvPhotos ordena por order_column para respetar el orden del
// shelter; los videos solo se ordenan alfabéticamente.
func shelterluvPhotos(raw any) []string {
	items := mediaItems(raw)
	sort.SliceStable(items, func(i, j int) bool {
		oi, _ := anyToInt(items[i]["order_column"])
		oj, _ := anyToInt(items[j]["order_column"])
		return oi < oj
	})

	var out []string
	for _, item := range items {
		if url := strings.TrimSpace(anyToString(item["url"])); url != "" {
			out = append(out, url)
		}
	}
	return out
}

func shelterluvVideos(raw any) []string {
	var out []string
	for _, item := range mediaItems(raw) {
		if url := strings.TrimSpace(anyToString(item["url"])); url != "" {
			out = append(out, url)
		}
	}
	sort.Strings(out)
	return out
}

// mediaItems acepta lista u objeto keyed-por-índice (ambas formas
// aparecen en payloads de Shelterluv). Para el objeto, las keys
// numéricas van primero en orden numérico.
func mediaItems(raw any) []map[string]any {
	switch t := raw.(type) {
	case []any:
		var out []map[string]any
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			ni, errI := strconv.Atoi(keys[i])
			nj, errJ := strconv.Atoi(keys[j])
			switch {
			case errI == nil && errJ == nil:
				return ni < nj
			case errI == nil:
				return true
			case errJ == nil:
				return false
			default:
				return keys[i] < keys[j]
			}
		})
		var out []map[string]any
		for _, k := range keys {
			if m, ok := t[k].(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func shelterluvDescription(raw any) string {
	text := strings.TrimSpace(anyToString(raw))
	if text == "" {
		return ""
	}
	// kennel_description viene como fragmento HTML.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return scrape.CleanText(text)
	}
	return scrape.CleanText(doc.Text())
}

func anyToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func anyToFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func anyToInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
