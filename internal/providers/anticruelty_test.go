package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-radar/internal/scrape"
)

func docFromHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestExtractEmbedConfigs(t *testing.T) {
	doc := docFromHTML(t, `<html><body><script>
		var sourceDomain = 'https://demo.shelterluv.com/';
		var GID = 99;
		var filters = {'species': 'Dog', 'defaultSort': 'random'};
		EmbedAvailablePets(sourceDomain, GID, filters);
	</script><script>
		var sourceDomain = 'https://demo.shelterluv.com/';
		var GID = 99;
		var filters = {'defaultSort': 'random', 'species': 'Dog'};
		EmbedAvailablePets(sourceDomain, GID, filters);
	</script></body></html>`)

	configs := extractEmbedConfigs(doc)
	// mismo domain/id/filters en distinto orden: una sola config
	require.Len(t, configs, 1)
	assert.Equal(t, "https://demo.shelterluv.com", configs[0].Domain)
	assert.Equal(t, 99, configs[0].ShelterID)
	assert.Equal(t, map[string]string{"species": "Dog", "defaultSort": "random"}, configs[0].Filters)
}

func TestExtractEmbedConfigsFallback(t *testing.T) {
	t.Run("domain inferred from page text", func(t *testing.T) {
		doc := docFromHTML(t, `<html><body>
			<p>See our pets at https://acs.shelterluv.com today.</p>
		</body></html>`)

		configs := extractEmbedConfigs(doc)
		require.Len(t, configs, 1)
		assert.Equal(t, "https://acs.shelterluv.com", configs[0].Domain)
		assert.Equal(t, shelterluvDefaultID, configs[0].ShelterID)
		assert.Equal(t, map[string]string{"defaultSort": "random"}, configs[0].Filters)
	})

	t.Run("default domain when nothing matches", func(t *testing.T) {
		doc := docFromHTML(t, `<html><body><p>no embeds here</p></body></html>`)

		configs := extractEmbedConfigs(doc)
		require.Len(t, configs, 1)
		assert.Equal(t, shelterluvDefaultDomain, configs[0].Domain)
	})
}

func TestIsAdoptable(t *testing.T) {
	assert.True(t, isAdoptable(true))
	assert.True(t, isAdoptable(float64(1)))
	assert.True(t, isAdoptable("1"))
	assert.True(t, isAdoptable(nil))

	assert.False(t, isAdoptable(false))
	assert.False(t, isAdoptable(float64(0)))
	assert.False(t, isAdoptable("0"))
	assert.False(t, isAdoptable("false"))
}

func TestAntiCrueltyListActiveLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/adoptable"):
			_, _ = w.Write([]byte(`<html><body><script>
				var sourceDomain = 'https://demo.shelterluv.com';
				var GID = 99;
				var filters = {'defaultSort': 'random'};
				EmbedAvailablePets(sourceDomain, GID, filters);
			</script></body></html>`))
		case r.URL.Path == "/api/v3/available-animals/99":
			assert.Equal(t, "random", r.URL.Query().Get("defaultSort"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"animals": [
				{"uniqueId": "ACS-A-100", "adoptable": true, "public_url": "https://demo.shelterluv.com/adopt/ACS-A-100"},
				{"uniqueId": "ACS-A-101", "adoptable": true},
				{"uniqueId": "ACS-A-102", "adoptable": false}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewAntiCruelty(testDeps(t, srv))
	got, err := p.ListActiveLinks(context.Background(), false)
	require.NoError(t, err)

	// el no-adoptable queda afuera; sin public_url se arma la URL de embed
	require.Len(t, got, 2)
	assert.Contains(t, got, "https://demo.shelterluv.com/adopt/ACS-A-100")
	assert.Contains(t, got, "https://demo.shelterluv.com/embed/animal/ACS-A-101")
}

func antiCrueltyProfilePage(t *testing.T, animal map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(animal)
	require.NoError(t, err)
	escaped := strings.ReplaceAll(string(payload), `"`, "&quot;")
	return `<html><body><iframe-animal :animal="` + escaped + `"></iframe-animal></body></html>`
}

func TestAntiCrueltyFetchProfile(t *testing.T) {
	animal := map[string]any{
		"uniqueId": "ACS-A-4711",
		"name":     "Pepita",
		"species":  "Cat",
		"breed":    "Domestic Shorthair",
		"sex":      "Female",
		"birthday": "1743508800",
		"age_group": map[string]any{
			"age_from": 1, "from_unit": "year",
			"age_to": 2, "to_unit": "years",
			"name": "Adult",
		},
		"weight":             "8.5",
		"location":           "Main Shelter",
		"adoptable":          true,
		"kennel_description": "<p>Pepita loves warm laps.</p>",
		"photos": []any{
			map[string]any{"url": "https://cdn/2.jpg", "order_column": 2},
			map[string]any{"url": "https://cdn/1.jpg", "order_column": 1},
		},
		"videos": []any{
			map[string]any{"url": "https://cdn/b.mp4"},
			map[string]any{"url": "https://cdn/a.mp4"},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(antiCrueltyProfilePage(t, animal)))
	}))
	defer srv.Close()

	p := NewAntiCruelty(testDeps(t, srv))
	profile, err := p.FetchProfile(context.Background(), "https://demo.shelterluv.com/embed/animal/ACS-A-4711")
	require.NoError(t, err)

	assert.Equal(t, 4711, profile.PetID)
	assert.Equal(t, "cat", profile.Species)
	assert.Equal(t, "Pepita", profile.Name)
	assert.Equal(t, "Domestic Shorthair", profile.Breed)
	assert.Equal(t, "Female", profile.Gender)

	// birthday 2025-04-01T12:00Z contra now 2025-06-01T12:00Z = 61 días;
	// el birthday manda sobre el age_group
	require.NotNil(t, profile.AgeMonths)
	assert.InDelta(t, 61.0/scrape.DaysPerMonth, *profile.AgeMonths, 0.01)
	assert.Equal(t, "2 months", profile.AgeRaw)

	require.NotNil(t, profile.WeightLbs)
	assert.Equal(t, 8.5, *profile.WeightLbs)
	assert.Equal(t, "Available", profile.Status)
	assert.Equal(t, "Pepita loves warm laps.", profile.Description)

	// fotos por order_column, videos alfabéticos
	assert.Equal(t, []string{"https://cdn/1.jpg", "https://cdn/2.jpg"}, profile.Media.Images)
	assert.Equal(t, []string{"https://cdn/a.mp4", "https://cdn/b.mp4"}, profile.Media.Videos)
}

func TestAntiCrueltyFetchProfileEscapedPayload(t *testing.T) {
	// payload doble-escapado: tras el unescape del parser HTML el atributo
	// todavía trae &quot;, que solo parsea en el segundo intento
	animal := map[string]any{
		"uniqueId":  "ACS-A-7",
		"name":      "Bongo",
		"species":   "Dog",
		"adoptable": true,
	}
	payload, err := json.Marshal(animal)
	require.NoError(t, err)
	doubleEscaped := strings.ReplaceAll(string(payload), `"`, "&amp;quot;")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><iframe-animal :animal="` + doubleEscaped + `"></iframe-animal></body></html>`))
	}))
	defer srv.Close()

	p := NewAntiCruelty(testDeps(t, srv))
	profile, err := p.FetchProfile(context.Background(), "https://demo.shelterluv.com/embed/animal/ACS-A-7")
	require.NoError(t, err)
	assert.Equal(t, 7, profile.PetID)
	assert.Equal(t, "Bongo", profile.Name)
}

func TestAntiCrueltyFetchProfileMissingNode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>gone</p></body></html>`))
	}))
	defer srv.Close()

	p := NewAntiCruelty(testDeps(t, srv))
	_, err := p.FetchProfile(context.Background(), "https://demo.shelterluv.com/embed/animal/ACS-A-9")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestMediaItemsIndexedObject(t *testing.T) {
	raw := map[string]any{
		"10": map[string]any{"url": "https://cdn/third.jpg"},
		"2":  map[string]any{"url": "https://cdn/second.jpg"},
		"1":  map[string]any{"url": "https://cdn/first.jpg"},
	}

	items := mediaItems(raw)
	require.Len(t, items, 3)
	assert.Equal(t, "https://cdn/first.jpg", items[0]["url"])
	assert.Equal(t, "https://cdn/second.jpg", items[1]["url"])
	assert.Equal(t, "https://cdn/third.jpg", items[2]["url"])
}

func TestExtractShelterluvID(t *testing.T) {
	id, ok := extractShelterluvID(map[string]any{"uniqueId": "ACS-A-123"}, "")
	require.True(t, ok)
	assert.Equal(t, 123, id)

	id, ok = extractShelterluvID(map[string]any{}, "https://demo.shelterluv.com/embed/animal/456")
	require.True(t, ok)
	assert.Equal(t, 456, id)

	id, ok = extractShelterluvID(map[string]any{"nid": float64(789)}, "no-digits")
	require.True(t, ok)
	assert.Equal(t, 789, id)

	_, ok = extractShelterluvID(map[string]any{}, "no-digits")
	assert.False(t, ok)
}
