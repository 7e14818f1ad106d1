package profiles

import (
	"context"
	"strings"

	"pet-adoption-radar/internal/config"
)

type Service struct {
	repo    Repository
	sources []string
	maxAge  float64
}

func NewService(repo Repository, sources []string, maxAgeMonths float64) *Service {
	if maxAgeMonths <= 0 {
		maxAgeMonths = config.DefaultMaxAgeMonths
	}
	return &Service{
		repo:    repo,
		sources: sources,
		maxAge:  maxAgeMonths,
	}
}

// Feed aplica defaults/sanitización a los filtros y consulta el repo.
func (s *Service) Feed(ctx context.Context, f FeedFilter) ([]FeedItem, error) {
	return s.repo.Feed(ctx, s.normalize(f))
}

func (s *Service) CountFeed(ctx context.Context, f FeedFilter) (int, error) {
	return s.repo.CountFeed(ctx, s.normalize(f))
}

func (s *Service) normalize(f FeedFilter) FeedFilter {
	f.Sources = s.sources
	f.Breed = truncateFilter(f.Breed, config.MaxBreedFilterLength)
	f.Name = truncateFilter(f.Name, config.MaxNameFilterLength)

	// Provider tiene que ser un source conocido; si no, se ignora.
	f.Provider = strings.TrimSpace(f.Provider)
	if f.Provider != "" && !contains(s.sources, f.Provider) {
		f.Provider = ""
	}

	if strings.TrimSpace(f.Species) != "" {
		f.Species = NormalizeSpecies(f.Species)
	} else {
		f.Species = ""
	}

	if f.MaxAgeMonths <= 0 || f.MaxAgeMonths > s.maxAge {
		f.MaxAgeMonths = s.maxAge
	}

	if f.Limit <= 0 {
		f.Limit = config.DefaultFeedLimit
	}
	if f.Limit > config.MaxFeedLimit {
		f.Limit = config.MaxFeedLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	// Unseen y passed son modos excluyentes; unseen gana.
	if f.UnseenOnly {
		f.PassedOnly = false
	}
	if f.ViewerKey == "" {
		f.UnseenOnly = false
		f.PassedOnly = false
	}

	return f
}

func truncateFilter(v string, max int) string {
	v = strings.Join(strings.Fields(v), " ")
	if len(v) > max {
		v = v[:max]
	}
	return v
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
