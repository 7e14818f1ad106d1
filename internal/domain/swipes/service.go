package swipes

import (
	"context"
	"fmt"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
)

// Service aplica las reglas de negocio de swipes antes de persistir.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

// Record valida y registra un swipe. CreatedAt lo pone el servicio.
func (s *Service) Record(ctx context.Context, sw Swipe) (Swipe, error) {
	if sw.ViewerKey == "" {
		return Swipe{}, fmt.Errorf("%w: viewer key is required", ErrInvalidInput)
	}
	if sw.PetID <= 0 {
		return Swipe{}, fmt.Errorf("%w: pet id must be positive", ErrInvalidInput)
	}
	if !sw.Direction.valid() {
		return Swipe{}, fmt.Errorf("%w: direction must be left or right", ErrInvalidInput)
	}
	sw.Species = profiles.NormalizeSpecies(sw.Species)
	sw.CreatedAt = s.now().UTC()

	if err := s.repo.Record(ctx, sw); err != nil {
		return Swipe{}, err
	}
	return sw, nil
}

// Likes lista los likes vigentes del viewer con paginación defensiva.
func (s *Service) Likes(ctx context.Context, viewerKey string, limit, offset int) ([]Like, int, error) {
	if viewerKey == "" {
		return nil, 0, fmt.Errorf("%w: viewer key is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 40
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	likes, err := s.repo.Likes(ctx, viewerKey, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountLikes(ctx, viewerKey)
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// SeenKeys devuelve el set de mascotas con algún swipe vigente del viewer
// según su última decisión.
func (s *Service) SeenKeys(ctx context.Context, viewerKey string) (map[profiles.Key]Direction, error) {
	latest, err := s.repo.LatestByViewer(ctx, viewerKey)
	if err != nil {
		return nil, err
	}
	out := make(map[profiles.Key]Direction, len(latest))
	for _, sw := range latest {
		out[sw.Key()] = sw.Direction
	}
	return out, nil
}
