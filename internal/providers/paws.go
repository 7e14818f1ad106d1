package providers

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/scrape"
)

const (
	pawsAvailableURL = "https://www.pawschicago.org/our-work/pets-adoption/pets-available"

	// Las fotos de perfil viven en el CDN de Canto; el resto de los <img>
	// de la página es chrome del sitio.
	pawsCantoImagePrefix = "https://pawschicago.canto.com/direct/image/"
)

var (
	pawsProfilePathRE = regexp.MustCompile(`^/pet-available-for-adoption/showdog/\d+$`)
	pawsShowdogIDRE   = regexp.MustCompile(`/showdog/(\d+)`)
)

// Paws scrapea PAWS Chicago: listing HTML con anchors /showdog/<id> y
// páginas de perfil con labels, ratings y media.
type Paws struct {
	deps Deps
}

func NewPaws(deps Deps) *Paws {
	return &Paws{deps: deps}
}

func (p *Paws) Source() string { return SourcePaws }

func (p *Paws) ListActiveLinks(ctx context.Context, useCache bool) ([]string, error) {
	return listWithCache(ctx, p.deps, p.Source(), useCache, func(ctx context.Context) ([]string, error) {
		doc, err := p.deps.Client.GetHTML(ctx, pawsAvailableURL)
		if err != nil {
			return nil, err
		}

		seen := map[string]struct{}{}
		var out []string
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if !pawsProfilePathRE.MatchString(href) {
				return
			}
			resolved := scrape.ResolveURL(pawsAvailableURL, href)
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

func (p *Paws) FetchProfile(ctx context.Context, url string) (profiles.Profile, error) {
	p.deps.Log.Info("fetching pet profile", map[string]any{"source": p.Source(), "url": url})

	doc, err := p.deps.Client.GetHTML(ctx, url)
	if err != nil {
		return profiles.Profile{}, &FetchError{Source: p.Source(), URL: url, Err: err}
	}

	m := pawsShowdogIDRE.FindStringSubmatch(url)
	if m == nil {
		return profiles.Profile{}, &ParseError{Source: p.Source(), URL: url, Err: fmt.Errorf("missing showdog id in url")}
	}
	petID := mustAtoi(m[1])

	ageRaw := scrape.FindLabelValue(doc, "Age")

	profile := profiles.Profile{
		PetID:       petID,
		Species:     profiles.SpeciesDog,
		URL:         url,
		Name:        scrape.PageTitleName(doc),
		Breed:       scrape.FindLabelValue(doc, "Breed"),
		Gender:      scrape.FindLabelValue(doc, "Gender"),
		AgeRaw:      ageRaw,
		AgeMonths:   scrape.ParseAgeText(ageRaw),
		WeightLbs:   scrape.ParseWeightLbs(scrape.FindLabelValue(doc, "Weight")),
		Location:    scrape.FindLabelValue(doc, "Location"),
		Status:      scrape.FindLabelValue(doc, "Status"),
		Ratings:     scrape.ExtractRatings(doc),
		Description: scrape.ExtractDescription(doc),
		Media:       scrape.ExtractMedia(url, doc, pawsCantoImagePrefix),
	}

	out, err := profiles.New(profile, p.deps.Now)
	if err != nil {
		return profiles.Profile{}, &ParseError{Source: p.Source(), URL: url, Err: err}
	}
	return out, nil
}
