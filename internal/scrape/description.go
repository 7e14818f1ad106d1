package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// Umbral para "esto ya es una bio y no boilerplate".
	MinParagraphLength = 80
	MinBlockLength     = 120
)

// Frase fija del carrusel de Petango que contamina la bio.
const petangoNoisePhrase = "Click a number to change picture or play to see a video"

var meetNameRE = regexp.MustCompile(`(?i)\bMeet\s+(.+?)(?:[.!-]|$)`)

// ExtractDescription devuelve el primer párrafo suficientemente largo.
func ExtractDescription(doc *goquery.Document) string {
	var out string
	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := CleanText(sel.Text())
		if len(t) > MinParagraphLength {
			out = t
			return false
		}
		return true
	})
	return out
}

// ExtractLongBlock es la variante para páginas sin <p> útiles (Petango):
// primer bloque p/div con largo >= MinBlockLength.
func ExtractLongBlock(doc *goquery.Document) string {
	var out string
	doc.Find("p, div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := CleanText(sel.Text())
		if len(t) >= MinBlockLength {
			out = t
			return false
		}
		return true
	})
	return out
}

// ExtractPetName busca un nombre probable en heading, title o descripción.
// En la descripción primero se saca la frase de ruido del carrusel y
// después se aplica el regex "Meet <Name>".
func ExtractPetName(doc *goquery.Document, description string) string {
	for _, selector := range []string{"h1", ".petName", ".pet-name", "title"} {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		raw, _, _ := strings.Cut(node.Text(), "|")
		if candidate := CleanText(raw); candidate != "" {
			return candidate
		}
	}

	if description != "" {
		cleaned := CleanText(strings.ReplaceAll(description, petangoNoisePhrase, ""))
		if m := meetNameRE.FindStringSubmatch(cleaned); m != nil {
			return CleanText(m[1])
		}
	}
	return ""
}
