// Package scrape contiene los extractores de campo: funciones puras que
// convierten fragmentos de HTML/JSON crudo en valores tipados. Nunca fallan
// por datos ausentes; el ausente se devuelve como vacío/nil.
package scrape

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	numberRE     = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
)

// CleanText colapsa whitespace a espacios simples.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// ParseWeightLbs saca el primer valor numérico de un texto de peso
// ("35 lbs" → 35).
func ParseWeightLbs(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	m := numberRE.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// FindLabelValue busca "Label: Valor" en el texto plano de la página.
func FindLabelValue(doc *goquery.Document, label string) string {
	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	re, err := regexp.Compile(`(?im)^\s*` + regexp.QuoteMeta(label) + `\s*:?\s*(.+)$`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return CleanText(m[1])
}

// PageTitleName toma el nombre desde <title>, cortando en "|".
func PageTitleName(doc *goquery.Document) string {
	title := CleanText(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	name, _, _ := strings.Cut(title, "|")
	return strings.TrimSpace(name)
}

// ExtractQueryID saca un id numérico del query string (?id=123).
func ExtractQueryID(rawURL string) (int, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, false
	}
	v := u.Query().Get("id")
	if v == "" {
		return 0, false
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// NumericSuffix saca el número final de un texto (para ids en URLs tipo
// .../animal/ACS123456).
func NumericSuffix(text string) (int, bool) {
	m := regexp.MustCompile(`(\d+)$`).FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// FirstInt saca el primer entero que aparezca en el texto.
func FirstInt(text string) (int, bool) {
	m := regexp.MustCompile(`\d+`).FindString(text)
	if m == "" {
		return 0, false
	}
	id, err := strconv.Atoi(m)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ResolveURL resuelve ref contra base; devuelve "" si no se puede.
func ResolveURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}
