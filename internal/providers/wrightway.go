package providers

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/scrape"
)

const wrightWayStartURL = "https://wright-wayrescue.org/adoptable-pets"

var wrightWayProfileRE = regexp.MustCompile(`(?i)wsAdoptableAnimalDetails\.aspx`)

// wrightWayLabels son los campos tabulares de Petango que interesan.
var wrightWayLabels = []string{"Animal ID", "Breed", "Gender", "Age", "Location", "Stage"}

// WrightWay scrapea Wright-Way Rescue. El sitio incrusta el listado de
// Petango en un iframe; los perfiles son páginas wsAdoptableAnimalDetails
// con los datos en una tabla label/valor.
type WrightWay struct {
	deps Deps
}

func NewWrightWay(deps Deps) *WrightWay {
	return &WrightWay{deps: deps}
}

func (w *WrightWay) Source() string { return SourceWrightWay }

func (w *WrightWay) ListActiveLinks(ctx context.Context, useCache bool) ([]string, error) {
	return listWithCache(ctx, w.deps, w.Source(), useCache, func(ctx context.Context) ([]string, error) {
		doc, err := w.deps.Client.GetHTML(ctx, wrightWayStartURL)
		if err != nil {
			return nil, err
		}

		iframeSrc, ok := doc.Find("iframe").First().Attr("src")
		if !ok || iframeSrc == "" {
			return nil, fmt.Errorf("petango iframe not found on adoptables page")
		}
		listingURL := scrape.ResolveURL(wrightWayStartURL, iframeSrc)

		listing, err := w.deps.Client.GetHTML(ctx, listingURL)
		if err != nil {
			return nil, err
		}

		seen := map[string]struct{}{}
		var out []string
		listing.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if !wrightWayProfileRE.MatchString(href) {
				return
			}
			resolved := scrape.ResolveURL(listingURL, href)
			if resolved == "" {
				return
			}
			if _, ok := seen[resolved]; ok {
				return
			}
			seen[resolved] = struct{}{}
			out = append(out, resolved)
		})
		return out, nil
	})
}

func (w *WrightWay) FetchProfile(ctx context.Context, url string) (profiles.Profile, error) {
	w.deps.Log.Info("fetching pet profile", map[string]any{"source": w.Source(), "url": url})

	doc, err := w.deps.Client.GetHTML(ctx, url)
	if err != nil {
		return profiles.Profile{}, &FetchError{Source: w.Source(), URL: url, Err: err}
	}

	labels := w.extractLabelValues(doc)
	description := scrape.ExtractLongBlock(doc)
	ageRaw := labels["Age"]

	// El Animal ID de la tabla manda sobre el parámetro ?id= del link.
	petID, hasID := scrape.ExtractQueryID(url)
	if raw, ok := labels["Animal ID"]; ok {
		if n, ok := scrape.FirstInt(raw); ok {
			petID, hasID = n, true
		}
	}
	if !hasID {
		return profiles.Profile{}, &ParseError{Source: w.Source(), URL: url, Err: fmt.Errorf("missing animal id")}
	}

	profile := profiles.Profile{
		PetID:       petID,
		Species:     profiles.SpeciesDog,
		URL:         url,
		Name:        scrape.ExtractPetName(doc, description),
		Breed:       labels["Breed"],
		Gender:      labels["Gender"],
		AgeRaw:      ageRaw,
		AgeMonths:   scrape.ParseAgeText(ageRaw),
		Location:    labels["Location"],
		Status:      labels["Stage"],
		Description: description,
		Media:       scrape.ExtractMedia(url, doc),
	}

	out, err := profiles.New(profile, w.deps.Now)
	if err != nil {
		return profiles.Profile{}, &ParseError{Source: w.Source(), URL: url, Err: err}
	}
	return out, nil
}

// extractLabelValues junta pares label/valor: primero las filas <tr>
// de la tabla Petango, después un pase por texto plano para los labels
// conocidos que falten.
func (w *WrightWay) extractLabelValues(doc *goquery.Document) map[string]string {
	data := map[string]string{}

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		key := scrape.CleanText(cells.Eq(0).Text())
		for len(key) > 0 && key[len(key)-1] == ':' {
			key = key[:len(key)-1]
		}
		val := scrape.CleanText(cells.Eq(1).Text())
		if key != "" && val != "" {
			data[key] = val
		}
	})

	for _, label := range wrightWayLabels {
		if _, ok := data[label]; ok {
			continue
		}
		if val := scrape.FindLabelValue(doc, label); val != "" {
			data[label] = val
		}
	}
	return data
}
