package memory

import (
	"context"
	"sort"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/domain/swipes"
)

func (s *Store) Record(_ context.Context, sw swipes.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.swipeEvents = append(s.swipeEvents, sw)

	byKey := s.likes[sw.ViewerKey]
	if byKey == nil {
		byKey = map[profiles.Key]swipes.Like{}
		s.likes[sw.ViewerKey] = byKey
	}
	if sw.Direction == swipes.DirectionRight {
		byKey[sw.Key()] = swipes.Like{
			ViewerKey: sw.ViewerKey,
			PetID:     sw.PetID,
			Species:   sw.Species,
			Source:    sw.Source,
			CreatedAt: sw.CreatedAt,
		}
	} else {
		delete(byKey, sw.Key())
	}
	return nil
}

func (s *Store) LatestByViewer(_ context.Context, viewerKey string) ([]swipes.Swipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := s.latestSwipeEventsLocked(viewerKey)
	out := make([]swipes.Swipe, 0, len(latest))
	for _, sw := range latest {
		out = append(out, sw)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) Likes(_ context.Context, viewerKey string, limit, offset int) ([]swipes.Like, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]swipes.Like, 0, len(s.likes[viewerKey]))
	for _, like := range s.likes[viewerKey] {
		all = append(all, like)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].PetID > all[j].PetID
	})

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *Store) CountLikes(_ context.Context, viewerKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.likes[viewerKey]), nil
}

// latestSwipesLocked reduce los eventos al último por mascota.
func (s *Store) latestSwipesLocked(viewerKey string) map[profiles.Key]swipes.Direction {
	latest := s.latestSwipeEventsLocked(viewerKey)
	out := make(map[profiles.Key]swipes.Direction, len(latest))
	for key, sw := range latest {
		out[key] = sw.Direction
	}
	return out
}

func (s *Store) latestSwipeEventsLocked(viewerKey string) map[profiles.Key]swipes.Swipe {
	latest := map[profiles.Key]swipes.Swipe{}
	for _, sw := range s.swipeEvents {
		if sw.ViewerKey != viewerKey {
			continue
		}
		if prev, ok := latest[sw.Key()]; !ok || !sw.CreatedAt.Before(prev.CreatedAt) {
			latest[sw.Key()] = sw
		}
	}
	return latest
}
