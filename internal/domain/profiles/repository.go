package profiles

import (
	"context"
	"time"
)

// FeedFilter son los parámetros de consulta del feed de swipe.
type FeedFilter struct {
	// Sources habilitados; el feed solo considera links activos de estos.
	Sources []string

	Breed    string // substring, case-insensitive
	Name     string // substring, case-insensitive
	Provider string // source exacto; vacío = todos
	Species  string // exacto; vacío = todas

	MaxAgeMonths float64

	// ViewerKey habilita los toggles de swipe-history. "Unseen"/"passed"
	// se evalúan contra el ÚLTIMO swipe del viewer por mascota.
	ViewerKey  string
	UnseenOnly bool
	PassedOnly bool

	Randomize bool
	Limit     int
	Offset    int
}

// FeedItem es un Profile más el source que lo tiene activo.
type FeedItem struct {
	Profile
	Source string
}

type Repository interface {
	// Store agrega observaciones al log append-only; (pet_id, species,
	// scraped_at) repetidos se ignoran, nunca se pisan.
	Store(ctx context.Context, batch []Profile) error

	// Feed devuelve la última observación por (pet_id, species) entre los
	// listings activos, elegibles por edad y con status "Available...".
	// Orden: scraped_at desc, pet_id desc, species asc; o random sample.
	Feed(ctx context.Context, f FeedFilter) ([]FeedItem, error)
	CountFeed(ctx context.Context, f FeedFilter) (int, error)

	// ActiveScrapedBetween carga las últimas observaciones de un source
	// con link activo y scraped_at en [from, to). Lo usa el aggregator
	// para el reuso same-day.
	ActiveScrapedBetween(ctx context.Context, source string, from, to time.Time) ([]Profile, error)
}
