package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-radar/internal/domain/profiles"
)

func TestBuildMessage(t *testing.T) {
	age := 3.5
	weight := 12.0
	p := profiles.Profile{
		PetID:   4711,
		Species: "dog",
		URL:     "https://shelter/dog/4711",
		Name:    "Luna",
		Breed:   "Terrier Mix",
		Gender:  "Female",
		Status:  "Available",
		Ratings: map[profiles.RatingCategory]int{
			profiles.RatingChildren: 4,
			profiles.RatingDogs:     profiles.RatingUnknown,
		},
		AgeMonths: &age,
		WeightLbs: &weight,
		Media: profiles.Media{
			Images: []string{"https://cdn/1.jpg", "https://cdn/2.jpg", "https://cdn/3.jpg", "https://cdn/4.jpg"},
		},
		Description: "Luna loves everyone.",
		ScrapedAt:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}

	generatedAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	msg, err := BuildMessage("a@b.com", []profiles.Profile{p}, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", msg.To)
	assert.Equal(t, "Pet Adoption Radar - 1 adoptable pets as of 2025-06-01 09", msg.Subject)

	assert.Contains(t, msg.HTML, "Luna")
	assert.Contains(t, msg.HTML, "#4711")
	assert.Contains(t, msg.HTML, "Terrier Mix")
	assert.Contains(t, msg.HTML, "https://shelter/dog/4711")
	// rating desconocido se muestra como raya, no como 0
	assert.Contains(t, msg.HTML, "<b>Children:</b> 4")
	assert.Contains(t, msg.HTML, "<b>Dogs:</b> —")
	// tope de imágenes por card
	assert.Contains(t, msg.HTML, "https://cdn/3.jpg")
	assert.NotContains(t, msg.HTML, "https://cdn/4.jpg")

	assert.Contains(t, msg.Text, "Profile #4711")
	assert.Contains(t, msg.Text, "Name       : Luna")
	assert.Contains(t, msg.Text, "Age        : 3.5 months")
}

func TestBuildMessageEmptyFieldsRenderAsDash(t *testing.T) {
	p := profiles.Profile{
		PetID:     1,
		Species:   "dog",
		URL:       "https://shelter/dog/1",
		ScrapedAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}

	msg, err := BuildMessage("a@b.com", []profiles.Profile{p}, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Breed      : —")
	assert.Contains(t, msg.Text, "Age        : — months")
	assert.Contains(t, msg.Text, "Ratings    : —")
}

func TestBuildMessageTruncatesDescription(t *testing.T) {
	p := profiles.Profile{
		PetID:       1,
		Species:     "dog",
		URL:         "https://shelter/dog/1",
		Description: strings.Repeat("a", maxDescriptionChars+200),
		ScrapedAt:   time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
	}

	msg, err := BuildMessage("a@b.com", []profiles.Profile{p}, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, strings.Repeat("a", maxDescriptionChars-1)+"…")
	assert.NotContains(t, msg.HTML, strings.Repeat("a", maxDescriptionChars))
}

func TestBuildMessageNoItems(t *testing.T) {
	msg, err := BuildMessage("a@b.com", nil, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "No profiles found.", msg.Text)
	assert.Contains(t, msg.HTML, "No profiles found.")
}
