// Package swipes registra las decisiones left/right de cada viewer y
// mantiene el set materializado de likes.
package swipes

import (
	"errors"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
)

// Direction es la decisión del swipe.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

var (
	ErrInvalidInput = errors.New("swipes: invalid input")
	ErrNotFound     = errors.New("swipes: not found")
)

// Swipe es un evento: append-only, uno por decisión. "Visto" y "pasado"
// se evalúan siempre contra el ÚLTIMO swipe por (viewer, pet, species).
type Swipe struct {
	ViewerKey string
	PetID     int
	Species   string
	Direction Direction
	Source    string
	CreatedAt time.Time
}

// Like es la vista materializada de los right-swipes vigentes. Un left
// posterior sobre la misma mascota lo borra.
type Like struct {
	ViewerKey string
	PetID     int
	Species   string
	Source    string
	CreatedAt time.Time
}

// Key devuelve la identidad de mascota del swipe.
func (s Swipe) Key() profiles.Key {
	return profiles.Key{PetID: s.PetID, Species: s.Species}
}

func (d Direction) valid() bool {
	return d == DirectionLeft || d == DirectionRight
}
