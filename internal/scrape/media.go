package scrape

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pet-adoption-radar/internal/domain/profiles"
)

var videoExtensionRE = regexp.MustCompile(`(?i)\.(mp4|mov|m4v)$`)

// ExtractMedia junta URLs de imagen/video/embed de la página.
// Resuelve URLs relativas contra pageURL, dedupea por set y devuelve
// listas ordenadas para que el resultado sea determinístico.
// imagePrefixes (opcional) restringe las imágenes a esos prefijos.
func ExtractMedia(pageURL string, doc *goquery.Document, imagePrefixes ...string) profiles.Media {
	images := map[string]struct{}{}
	videos := map[string]struct{}{}
	embeds := map[string]struct{}{}

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		resolved := ResolveURL(pageURL, src)
		if resolved == "" {
			return
		}
		if len(imagePrefixes) > 0 && !hasAnyPrefix(resolved, imagePrefixes) {
			return
		}
		images[resolved] = struct{}{}
	})

	doc.Find("video[src], video source[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if resolved := ResolveURL(pageURL, src); resolved != "" {
			videos[resolved] = struct{}{}
		}
	})

	doc.Find("iframe[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if resolved := ResolveURL(pageURL, src); resolved != "" {
			embeds[resolved] = struct{}{}
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !videoExtensionRE.MatchString(href) {
			return
		}
		if resolved := ResolveURL(pageURL, href); resolved != "" {
			videos[resolved] = struct{}{}
		}
	})

	return profiles.Media{
		Images: sortedKeys(images),
		Videos: sortedKeys(videos),
		Embeds: sortedKeys(embeds),
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
