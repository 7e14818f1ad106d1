package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption-radar/internal/domain/links"
	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/domain/swipes"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func obs(id int, species, name, breed string, age float64, scrapedAt time.Time) profiles.Profile {
	return profiles.Profile{
		PetID:     id,
		Species:   species,
		URL:       fmt.Sprintf("https://shelter/%s/%d", species, id),
		Name:      name,
		Breed:     breed,
		Status:    "Available",
		AgeMonths: &age,
		ScrapedAt: scrapedAt,
	}
}

func activate(t *testing.T, s *Store, source string, profs ...profiles.Profile) {
	t.Helper()
	linkSet := make([]string, 0, len(profs))
	for _, p := range profs {
		linkSet = append(linkSet, p.URL)
	}
	require.NoError(t, s.MarkStatus(context.Background(), source, linkSet))
}

func TestStoreIsAppendOnly(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p := obs(1, "dog", "Luna", "Terrier", 3, baseTime)
	require.NoError(t, s.Store(ctx, []profiles.Profile{p, p}))

	renamed := p
	renamed.Name = "Luna II"
	require.NoError(t, s.Store(ctx, []profiles.Profile{renamed}))

	activate(t, s, "src_a", p)
	got, err := s.ActiveScrapedBetween(ctx, "src_a", baseTime.Add(-time.Hour), baseTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	// misma (pet, species, scraped_at): la primera observación queda
	assert.Equal(t, "Luna", got[0].Name)
}

func TestFeedLatestObservationWins(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	old := obs(1, "dog", "Luna", "Terrier", 3, baseTime)
	updated := obs(1, "dog", "Luna", "Terrier Mix", 3.5, baseTime.Add(2*time.Hour))
	require.NoError(t, s.Store(ctx, []profiles.Profile{old, updated}))
	activate(t, s, "src_a", old)

	items, err := s.Feed(ctx, profiles.FeedFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Terrier Mix", items[0].Breed)
	assert.Equal(t, "src_a", items[0].Source)
}

func TestFeedFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	luna := obs(1, "dog", "Luna", "Terrier Mix", 3, baseTime)
	pepita := obs(2, "cat", "Pepita", "Shorthair", 4, baseTime.Add(time.Minute))
	rocky := obs(3, "dog", "Rocky", "Husky", 10, baseTime.Add(2*time.Minute))
	adopted := obs(4, "dog", "Taken", "Beagle", 2, baseTime.Add(3*time.Minute))
	adopted.Status = "Adopted"
	unknownAge := obs(5, "dog", "Mist", "Beagle", 0, baseTime.Add(4*time.Minute))
	unknownAge.AgeMonths = nil

	require.NoError(t, s.Store(ctx, []profiles.Profile{luna, pepita, rocky, adopted, unknownAge}))
	activate(t, s, "src_a", luna, rocky, adopted, unknownAge)
	activate(t, s, "src_b", pepita)

	t.Run("age threshold and status", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{MaxAgeMonths: 8})
		require.NoError(t, err)
		// rocky supera la edad, adopted no está Available, unknownAge no
		// tiene edad; orden: scraped_at desc
		require.Len(t, items, 2)
		assert.Equal(t, 2, items[0].PetID)
		assert.Equal(t, 1, items[1].PetID)
	})

	t.Run("provider and species", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{Provider: "src_b"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].PetID)

		items, err = s.Feed(ctx, profiles.FeedFilter{Species: "dog"})
		require.NoError(t, err)
		for _, item := range items {
			assert.Equal(t, "dog", item.Species)
		}
	})

	t.Run("breed and name substrings", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{Breed: "terrier"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].PetID)

		items, err = s.Feed(ctx, profiles.FeedFilter{Name: "PEP"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].PetID)
	})

	t.Run("enabled sources", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{Sources: []string{"src_b"}})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].PetID)
	})

	t.Run("count matches unpaginated feed", func(t *testing.T) {
		total, err := s.CountFeed(ctx, profiles.FeedFilter{MaxAgeMonths: 8})
		require.NoError(t, err)
		assert.Equal(t, 2, total)

		items, err := s.Feed(ctx, profiles.FeedFilter{MaxAgeMonths: 8, Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].PetID)
	})
}

func TestFeedInactiveLinkIsInvisible(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	luna := obs(1, "dog", "Luna", "Terrier", 3, baseTime)
	rocky := obs(2, "dog", "Rocky", "Husky", 4, baseTime)
	require.NoError(t, s.Store(ctx, []profiles.Profile{luna, rocky}))
	activate(t, s, "src_a", luna, rocky)

	// el flip a la generación nueva deja a luna afuera
	activate(t, s, "src_a", rocky)

	items, err := s.Feed(ctx, profiles.FeedFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].PetID)
}

func TestFeedSwipeToggles(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	luna := obs(1, "dog", "Luna", "Terrier", 3, baseTime)
	rocky := obs(2, "dog", "Rocky", "Husky", 4, baseTime)
	pepita := obs(3, "cat", "Pepita", "Shorthair", 5, baseTime)
	require.NoError(t, s.Store(ctx, []profiles.Profile{luna, rocky, pepita}))
	activate(t, s, "src_a", luna, rocky, pepita)

	record := func(petID int, species string, dir swipes.Direction, at time.Time) {
		require.NoError(t, s.Record(ctx, swipes.Swipe{
			ViewerKey: "v1", PetID: petID, Species: species, Direction: dir, CreatedAt: at,
		}))
	}
	record(1, "dog", swipes.DirectionLeft, baseTime)
	record(2, "dog", swipes.DirectionRight, baseTime.Add(time.Minute))

	t.Run("unseen only", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{ViewerKey: "v1", UnseenOnly: true})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].PetID)
	})

	t.Run("passed only", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{ViewerKey: "v1", PassedOnly: true})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, items[0].PetID)
	})

	t.Run("latest swipe drives both toggles", func(t *testing.T) {
		// el right posterior sobre luna la saca de "passed"
		record(1, "dog", swipes.DirectionRight, baseTime.Add(2*time.Minute))

		items, err := s.Feed(ctx, profiles.FeedFilter{ViewerKey: "v1", PassedOnly: true})
		require.NoError(t, err)
		assert.Empty(t, items)

		items, err = s.Feed(ctx, profiles.FeedFilter{ViewerKey: "v1", UnseenOnly: true})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].PetID)
	})

	t.Run("toggles without viewer are inert", func(t *testing.T) {
		items, err := s.Feed(ctx, profiles.FeedFilter{UnseenOnly: true})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestFeedRandomizeKeepsCandidateSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var all []profiles.Profile
	for i := 1; i <= 6; i++ {
		all = append(all, obs(i, "dog", fmt.Sprintf("pet-%d", i), "Mix", 3, baseTime.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, s.Store(ctx, all))
	activate(t, s, "src_a", all...)

	items, err := s.Feed(ctx, profiles.FeedFilter{Randomize: true})
	require.NoError(t, err)
	require.Len(t, items, 6)

	ids := map[int]bool{}
	for _, item := range items {
		ids[item.PetID] = true
	}
	assert.Len(t, ids, 6)
}

func TestActiveScrapedBetweenWindow(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	yesterday := obs(1, "dog", "Old", "Mix", 3, baseTime.AddDate(0, 0, -1))
	today := obs(2, "dog", "New", "Mix", 3, baseTime)
	atEnd := obs(3, "dog", "Edge", "Mix", 3, baseTime.Add(time.Hour))
	require.NoError(t, s.Store(ctx, []profiles.Profile{yesterday, today, atEnd}))
	activate(t, s, "src_a", yesterday, today, atEnd)

	// ventana [baseTime, baseTime+1h): el borde superior queda afuera
	got, err := s.ActiveScrapedBetween(ctx, "src_a", baseTime, baseTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].PetID)
}

func TestCachedLinksTTL(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.StoreCachedLinks(ctx, "src_a", []string{"https://a/1"}))

	got, err := s.CachedLinks(ctx, "src_a", links.FreshTTL)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/1"}, got)

	// una generación nueva pisa a la anterior en las lecturas
	require.NoError(t, s.StoreCachedLinks(ctx, "src_a", []string{"https://a/2"}))
	got, err = s.CachedLinks(ctx, "src_a", links.FreshTTL)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a/2"}, got)

	got, err = s.CachedLinks(ctx, "src_b", links.FreshTTL)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSendHistoryCounters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	key := profiles.Key{PetID: 1, Species: "dog"}
	first := baseTime
	second := baseTime.Add(24 * time.Hour)

	require.NoError(t, s.RecordSent(ctx, "a@b.com", []profiles.Key{key}, first))
	require.NoError(t, s.RecordSent(ctx, "a@b.com", []profiles.Key{key}, second))

	sent, err := s.SentKeys(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Contains(t, sent, key)

	// el historial es por destinatario
	sent, err = s.SentKeys(ctx, "c@d.com")
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestSubscribers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.AddSubscriber(ctx, "a@b.com"))
	require.NoError(t, s.AddSubscriber(ctx, "a@b.com"))
	require.NoError(t, s.AddSubscriber(ctx, "c@d.com"))

	subs, err := s.Subscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, subs)
}
