package profiles

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
)

// Media agrupa URLs de imágenes/videos/embeds de un perfil.
// Las listas vienen dedupeadas y con orden determinístico (sorted, o el
// orden explícito del provider cuando existe, p.ej. el ordinal de fotos
// de Shelterluv).
type Media struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
	Embeds []string `json:"embeds"`
}

func (m Media) Summary() string {
	return fmt.Sprintf("%d images, %d videos, %d embeds", len(m.Images), len(m.Videos), len(m.Embeds))
}

// Profile es una observación inmutable de un listing: una fila por scrape,
// nunca se actualiza. El "estado actual" siempre se deriva como la
// observación más reciente por (PetID, Species).
type Profile struct {
	PetID   int
	Species Species
	URL     string

	Name        string
	Breed       string
	Gender      string
	AgeRaw      string
	Location    string
	Status      string
	Description string

	// AgeMonths es derivado, no scrapeado literal; nil = no determinable.
	AgeMonths *float64
	WeightLbs *float64

	// Ratings: key presente = categoría observada; valor 0 = "unknown"
	// explícito en el markup.
	Ratings map[RatingCategory]int

	Media Media

	ScrapedAt time.Time
}

// New normaliza y valida una observación recién scrapeada.
// Species se pasa a minúsculas y defaultea a "dog"; ScrapedAt se setea
// al momento de extracción si viene en cero.
func New(p Profile, now func() time.Time) (Profile, error) {
	if p.PetID <= 0 {
		return Profile{}, fmt.Errorf("%w: pet id must be positive", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.URL) == "" {
		return Profile{}, fmt.Errorf("%w: url required", ErrInvalidProfile)
	}

	p.Species = NormalizeSpecies(p.Species)

	if p.Ratings == nil {
		p.Ratings = map[RatingCategory]int{}
	}
	if p.Media.Images == nil {
		p.Media.Images = []string{}
	}
	if p.Media.Videos == nil {
		p.Media.Videos = []string{}
	}
	if p.Media.Embeds == nil {
		p.Media.Embeds = []string{}
	}

	if p.ScrapedAt.IsZero() {
		if now == nil {
			now = time.Now
		}
		p.ScrapedAt = now()
	}
	p.ScrapedAt = p.ScrapedAt.UTC()

	return p, nil
}

// NormalizeSpecies baja a minúsculas y defaultea a dog.
func NormalizeSpecies(raw string) Species {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return SpeciesDog
	}
	return s
}

// Key identifica una mascota entre observaciones e historial.
type Key struct {
	PetID   int
	Species Species
}

func (p Profile) Key() Key {
	return Key{PetID: p.PetID, Species: p.Species}
}
