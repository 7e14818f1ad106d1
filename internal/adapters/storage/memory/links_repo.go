package memory

import (
	"context"
	"time"

	"pet-adoption-radar/internal/domain/links"
)

func (s *Store) CachedLinks(_ context.Context, source string, maxAge time.Duration) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	generations := s.cachedLinks[source]
	if len(generations) == 0 {
		return nil, nil
	}
	freshest := generations[len(generations)-1]
	if time.Since(freshest.FetchedAt) > maxAge {
		return nil, nil
	}
	return append([]string(nil), freshest.Links...), nil
}

func (s *Store) StoreCachedLinks(_ context.Context, source string, linkSet []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cachedLinks[source] = append(s.cachedLinks[source], cachedGeneration{
		Links:     append([]string(nil), linkSet...),
		FetchedAt: time.Now().UTC(),
	})
	return nil
}

func (s *Store) MarkStatus(_ context.Context, source string, linkSet []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byLink := s.status[source]
	if byLink == nil {
		byLink = map[string]links.Status{}
		s.status[source] = byLink
	}

	now := time.Now().UTC()
	for link, st := range byLink {
		st.Active = false
		byLink[link] = st
	}
	for _, link := range linkSet {
		st := byLink[link]
		st.Source = source
		st.Link = link
		st.Active = true
		st.LastActiveAt = now
		byLink[link] = st
	}
	return nil
}
