package memory

import (
	"context"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
)

func (s *Store) SentKeys(_ context.Context, recipient string) (map[profiles.Key]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[profiles.Key]struct{}{}
	for key := range s.sendHistory[recipient] {
		out[key] = struct{}{}
	}
	return out, nil
}

func (s *Store) RecordSent(_ context.Context, recipient string, keys []profiles.Key, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey := s.sendHistory[recipient]
	if byKey == nil {
		byKey = map[profiles.Key]sendRecord{}
		s.sendHistory[recipient] = byKey
	}
	for _, key := range keys {
		rec, ok := byKey[key]
		if !ok {
			rec.FirstSentAt = at
		}
		rec.LastSentAt = at
		rec.SendCount++
		byKey[key] = rec
	}
	return nil
}

func (s *Store) Subscribers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.subscribers...), nil
}

// AddSubscriber registra una dirección suscripta desde la app.
func (s *Store) AddSubscriber(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subscribers {
		if existing == email {
			return nil
		}
	}
	s.subscribers = append(s.subscribers, email)
	return nil
}
