package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pet-adoption-radar/internal/domain/profiles"
)

var activeRatingRE = regexp.MustCompile(`\br([0-5])\b`)

// ratingLabelToKey mapea el texto del ícono a la categoría canónica.
var ratingLabelToKey = map[string]profiles.RatingCategory{
	"children":          profiles.RatingChildren,
	"dogs":              profiles.RatingDogs,
	"cats":              profiles.RatingCats,
	"home alone":        profiles.RatingHomeAlone,
	"activity":          profiles.RatingActivity,
	"environment":       profiles.RatingEnvironment,
	"human sociability": profiles.RatingHumanSociability,
	"enrichment":        profiles.RatingEnrichment,
}

// ratingClassToKey mapea class names a la categoría canónica.
// El markup de gatos de PAWS tiene "human" y "enrichment" cruzados
// respecto del label renderizado; la tabla aplica la corrección fija.
var ratingClassToKey = map[string]profiles.RatingCategory{
	"children":    profiles.RatingChildren,
	"dogs":        profiles.RatingDogs,
	"cats":        profiles.RatingCats,
	"home_alone":  profiles.RatingHomeAlone,
	"activity":    profiles.RatingActivity,
	"environment": profiles.RatingEnvironment,
	"human":       profiles.RatingEnrichment,
	"enrichment":  profiles.RatingHumanSociability,
}

var legacyRatingClasses = []string{
	"children",
	"dogs",
	"cats",
	"home_alone",
	"activity",
	"environment",
	"human",
	"enrichment",
}

// ExtractRatings junta todas las categorías de rating de la página.
// Política: primero el marcador estructural (class active r0..r5), después
// el texto "unknown" → sentinel 0. La primera coincidencia por categoría
// gana; el pase legacy por class no pisa lo ya poblado.
func ExtractRatings(doc *goquery.Document) map[profiles.RatingCategory]int {
	ratings := map[profiles.RatingCategory]int{}

	doc.Find("span.rating_default").Each(func(_ int, block *goquery.Selection) {
		container := block.Parent()
		if container.Length() == 0 {
			return
		}
		key, value, ok := extractRatingFromBlock(container)
		if !ok {
			return
		}
		if _, exists := ratings[key]; exists {
			return
		}
		ratings[key] = value
	})

	// Fallback con selectores por class para layouts viejos.
	for _, legacyClass := range legacyRatingClasses {
		mapped, ok := ratingClassToKey[legacyClass]
		if !ok {
			continue
		}
		if _, exists := ratings[mapped]; exists {
			continue
		}
		if value, ok := extractSingleRating(doc, legacyClass); ok {
			ratings[mapped] = value
		}
	}

	return ratings
}

// extractRatingFromBlock saca key/valor canónicos de un bloque de rating.
func extractRatingFromBlock(block *goquery.Selection) (profiles.RatingCategory, int, bool) {
	labelText := CleanText(block.Find(".icon").First().Text())
	key, hasKey := ratingLabelToKey[strings.ToLower(labelText)]
	if !hasKey {
		for _, cls := range classList(block) {
			if mapped, ok := ratingClassToKey[strings.ToLower(cls)]; ok {
				key = mapped
				hasKey = true
				break
			}
		}
	}
	if !hasKey {
		return "", 0, false
	}

	active := block.Find("span.rating_default span.active").First()
	if active.Length() > 0 {
		if m := activeRatingRE.FindStringSubmatch(strings.Join(classList(active), " ")); m != nil {
			v, _ := strconv.Atoi(m[1])
			return key, v, true
		}
	}

	if strings.Contains(strings.ToLower(CleanText(block.Text())), "unknown") {
		return key, profiles.RatingUnknown, true
	}

	return "", 0, false
}

// extractSingleRating es el selector legacy: div.<class> span.rating_default
// span.active con class r0..r5.
func extractSingleRating(doc *goquery.Document, class string) (int, bool) {
	active := doc.Find("div." + class + " span.rating_default span.active").First()
	if active.Length() == 0 {
		return 0, false
	}
	m := activeRatingRE.FindStringSubmatch(strings.Join(classList(active), " "))
	if m == nil {
		return 0, false
	}
	v, _ := strconv.Atoi(m[1])
	return v, true
}

func classList(sel *goquery.Selection) []string {
	raw, _ := sel.Attr("class")
	return strings.Fields(raw)
}
