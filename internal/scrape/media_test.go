package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMediaDedupAndOrder(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<img src="https://cdn.example.com/b.jpg" />
		<img src="https://cdn.example.com/a.jpg" />
		<img src="https://cdn.example.com/b.jpg" />
		<video src="/clips/intro.mp4"></video>
		<video><source src="/clips/play.mp4" /></video>
		<iframe src="https://player.example.com/embed/1"></iframe>
		<a href="/clips/zoomies.MOV">watch</a>
		<a href="/adopt">apply</a>
	</body></html>`)

	got := ExtractMedia("https://shelter.example.org/pet/9", doc)

	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, got.Images)
	assert.Equal(t, []string{
		"https://shelter.example.org/clips/intro.mp4",
		"https://shelter.example.org/clips/play.mp4",
		"https://shelter.example.org/clips/zoomies.MOV",
	}, got.Videos)
	assert.Equal(t, []string{"https://player.example.com/embed/1"}, got.Embeds)

	// determinístico entre corridas
	again := ExtractMedia("https://shelter.example.org/pet/9", doc)
	assert.Equal(t, got, again)
}

func TestExtractMediaImagePrefixFilter(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<img src="https://cdn.shelter.org/direct/image/123.jpg" />
		<img src="https://static.shelter.org/logo.png" />
	</body></html>`)

	got := ExtractMedia("https://shelter.org/pet/1", doc, "https://cdn.shelter.org/direct/image/")
	assert.Equal(t, []string{"https://cdn.shelter.org/direct/image/123.jpg"}, got.Images)
}
