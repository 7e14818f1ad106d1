package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/domain/swipes"
)

func (s *Store) Store(_ context.Context, batch []profiles.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range batch {
		key := observationKey{PetID: p.PetID, Species: p.Species, ScrapedAt: p.ScrapedAt}
		if _, ok := s.observed[key]; ok {
			continue
		}
		s.observed[key] = struct{}{}
		s.observations = append(s.observations, p)
	}
	return nil
}

func (s *Store) Feed(_ context.Context, f profiles.FeedFilter) ([]profiles.FeedItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.feedCandidates(f)

	if f.Randomize {
		rand.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}

	if f.Offset >= len(items) {
		return nil, nil
	}
	items = items[f.Offset:]
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items, nil
}

func (s *Store) CountFeed(_ context.Context, f profiles.FeedFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feedCandidates(f)), nil
}

func (s *Store) ActiveScrapedBetween(_ context.Context, source string, from, to time.Time) ([]profiles.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := s.status[source]
	latest := map[profiles.Key]profiles.Profile{}
	for _, p := range s.observations {
		if p.ScrapedAt.Before(from) || !p.ScrapedAt.Before(to) {
			continue
		}
		st, ok := active[p.URL]
		if !ok || !st.Active {
			continue
		}
		if prev, ok := latest[p.Key()]; !ok || p.ScrapedAt.After(prev.ScrapedAt) {
			latest[p.Key()] = p
		}
	}

	out := make([]profiles.Profile, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScrapedAt.Equal(out[j].ScrapedAt) {
			return out[i].ScrapedAt.After(out[j].ScrapedAt)
		}
		return out[i].PetID > out[j].PetID
	})
	return out, nil
}

// feedCandidates arma la vista del feed: última observación por
// (pet, species) entre los listings activos, filtrada y ordenada.
// Se llama con el lock de lectura tomado.
func (s *Store) feedCandidates(f profiles.FeedFilter) []profiles.FeedItem {
	latest := map[profiles.Key]profiles.Profile{}
	for _, p := range s.observations {
		if prev, ok := latest[p.Key()]; !ok || p.ScrapedAt.After(prev.ScrapedAt) {
			latest[p.Key()] = p
		}
	}

	var seen map[profiles.Key]swipes.Direction
	if f.ViewerKey != "" && (f.UnseenOnly || f.PassedOnly) {
		seen = s.latestSwipesLocked(f.ViewerKey)
	}

	var items []profiles.FeedItem
	for key, p := range latest {
		source, active := s.activeSourceLocked(p.URL, f.Sources)
		if !active {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(p.Status), "available") {
			continue
		}
		if p.AgeMonths == nil || (f.MaxAgeMonths > 0 && *p.AgeMonths >= f.MaxAgeMonths) {
			continue
		}
		if f.Provider != "" && source != f.Provider {
			continue
		}
		if f.Species != "" && p.Species != f.Species {
			continue
		}
		if f.Breed != "" && !strings.Contains(strings.ToLower(p.Breed), strings.ToLower(f.Breed)) {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		if seen != nil {
			direction, swiped := seen[key]
			if f.UnseenOnly && swiped {
				continue
			}
			if f.PassedOnly && (!swiped || direction != swipes.DirectionLeft) {
				continue
			}
		}
		items = append(items, profiles.FeedItem{Profile: p, Source: source})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].ScrapedAt.Equal(items[j].ScrapedAt) {
			return items[i].ScrapedAt.After(items[j].ScrapedAt)
		}
		if items[i].PetID != items[j].PetID {
			return items[i].PetID > items[j].PetID
		}
		return items[i].Species < items[j].Species
	})
	return items
}

// activeSourceLocked busca el source que tiene el link activo, acotado a
// los sources habilitados cuando la lista viene no vacía.
func (s *Store) activeSourceLocked(link string, sources []string) (string, bool) {
	match := func(source string) bool {
		if len(sources) == 0 {
			return true
		}
		for _, enabled := range sources {
			if enabled == source {
				return true
			}
		}
		return false
	}

	for source, byLink := range s.status {
		if !match(source) {
			continue
		}
		if st, ok := byLink[link]; ok && st.Active {
			return source, true
		}
	}
	return "", false
}
