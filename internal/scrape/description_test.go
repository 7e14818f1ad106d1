package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var longBio = strings.Repeat("Sweet and playful pup looking for a patient family. ", 3)

func TestExtractDescriptionSkipsShortBoilerplate(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<p>Adopt today!</p>
		<p>`+longBio+`</p>
	</body></html>`)

	got := ExtractDescription(doc)
	assert.Equal(t, CleanText(longBio), got)
}

func TestExtractDescriptionEmptyWhenNothingLong(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>Adopt today!</p></body></html>`)
	assert.Equal(t, "", ExtractDescription(doc))
}

func TestExtractLongBlockUsesDivs(t *testing.T) {
	block := strings.Repeat("Rescued from a rural shelter and thriving in foster care. ", 3)
	doc := mustDoc(t, `<html><body>
		<div>Short header</div>
		<div>`+block+`</div>
	</body></html>`)

	assert.Equal(t, CleanText(block), ExtractLongBlock(doc))
}

func TestExtractPetNameSelectors(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>Luna | Adoptable Pets</title></head>
		<body><h1>  Luna  </h1></body></html>`)
	assert.Equal(t, "Luna", ExtractPetName(doc, ""))

	titleOnly := mustDoc(t, `<html><head><title>Biscuit | Petango</title></head><body></body></html>`)
	assert.Equal(t, "Biscuit", ExtractPetName(titleOnly, ""))
}

func TestExtractPetNameFromDescription(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)

	desc := "Click a number to change picture or play to see a video Meet Rocky! He loves fetch."
	assert.Equal(t, "Rocky", ExtractPetName(doc, desc))

	assert.Equal(t, "", ExtractPetName(doc, "No introductions here."))
}
