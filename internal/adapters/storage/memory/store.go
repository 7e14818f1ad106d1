// Package memory implementa todos los repositorios sobre mapas en
// memoria. Sirve para desarrollo local y tests; el comportamiento
// replica los contratos del adapter de Postgres.
package memory

import (
	"sync"
	"time"

	"pet-adoption-radar/internal/domain/links"
	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/domain/swipes"
)

// Store es el backing compartido: un solo mutex porque el feed cruza
// perfiles, status y swipes en una misma lectura.
type Store struct {
	mu sync.RWMutex

	// log append-only de observaciones
	observations []profiles.Profile
	observed     map[observationKey]struct{}

	// status activo/inactivo por (source, link)
	status map[string]map[string]links.Status

	// generaciones de link-sets cacheados por source
	cachedLinks map[string][]cachedGeneration

	// eventos de swipe y likes materializados
	swipeEvents []swipes.Swipe
	likes       map[string]map[profiles.Key]swipes.Like

	// historial de envíos por destinatario y suscriptores
	sendHistory map[string]map[profiles.Key]sendRecord
	subscribers []string
}

type observationKey struct {
	PetID     int
	Species   string
	ScrapedAt time.Time
}

type cachedGeneration struct {
	Links     []string
	FetchedAt time.Time
}

type sendRecord struct {
	FirstSentAt time.Time
	LastSentAt  time.Time
	SendCount   int
}

func NewStore() *Store {
	return &Store{
		observed:    map[observationKey]struct{}{},
		status:      map[string]map[string]links.Status{},
		cachedLinks: map[string][]cachedGeneration{},
		likes:       map[string]map[profiles.Key]swipes.Like{},
		sendHistory: map[string]map[profiles.Key]sendRecord{},
	}
}
