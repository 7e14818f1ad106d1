package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) Store(ctx context.Context, batch []profiles.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range batch {
		ratings, err := json.Marshal(p.Ratings)
		if err != nil {
			return fmt.Errorf("marshaling ratings for pet %d: %w", p.PetID, err)
		}
		media, err := json.Marshal(p.Media)
		if err != nil {
			return fmt.Errorf("marshaling media for pet %d: %w", p.PetID, err)
		}

		// append-only: una observación repetida no pisa la anterior
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pet_profiles (
				pet_id, species, url,
				name, breed, gender, age_raw,
				age_months, weight_lbs,
				location, status, ratings, description, media,
				scraped_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
			ON CONFLICT (pet_id, species, scraped_at) DO NOTHING
		`,
			p.PetID,
			p.Species,
			p.URL,
			p.Name,
			p.Breed,
			p.Gender,
			p.AgeRaw,
			p.AgeMonths,
			p.WeightLbs,
			p.Location,
			p.Status,
			ratings,
			p.Description,
			media,
			p.ScrapedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const feedSelectColumns = `
	latest.pet_id, latest.species, latest.url,
	latest.name, latest.breed, latest.gender, latest.age_raw,
	latest.age_months, latest.weight_lbs,
	latest.location, latest.status, latest.ratings, latest.description, latest.media,
	latest.scraped_at,
	st.source`

const feedFromClause = `
	FROM (
		SELECT DISTINCT ON (pet_id, species) *
		FROM pet_profiles
		ORDER BY pet_id, species, scraped_at DESC
	) AS latest
	JOIN pet_status AS st
	  ON st.link = latest.url
	 AND st.is_active = true
	 AND st.source = ANY($1)
	LEFT JOIN (
		SELECT DISTINCT ON (pet_id, species) pet_id, species, direction
		FROM pet_swipes
		WHERE viewer_key = $9
		ORDER BY pet_id, species, created_at DESC
	) AS ls
	  ON ls.pet_id = latest.pet_id
	 AND ls.species = latest.species`

const feedWhereClause = `
	WHERE COALESCE(latest.status, '') ILIKE 'Available%'
	  AND latest.age_months IS NOT NULL
	  AND latest.age_months < $2
	  AND ($3 = '' OR st.source = $3)
	  AND ($4 = '' OR latest.species = $4)
	  AND ($5 = '' OR COALESCE(latest.breed, '') ILIKE $6 ESCAPE '\')
	  AND ($7 = '' OR COALESCE(latest.name, '') ILIKE $8 ESCAPE '\')
	  AND (NOT $10 OR ls.direction IS NULL)
	  AND (NOT $11 OR ls.direction = 'left')`

func feedArgs(f profiles.FeedFilter) []any {
	return []any{
		f.Sources,
		f.MaxAgeMonths,
		f.Provider,
		f.Species,
		f.Breed,
		likePattern(f.Breed),
		f.Name,
		likePattern(f.Name),
		f.ViewerKey,
		f.UnseenOnly,
		f.PassedOnly,
	}
}

func (r *ProfilesRepo) Feed(ctx context.Context, f profiles.FeedFilter) ([]profiles.FeedItem, error) {
	order := `ORDER BY latest.scraped_at DESC, latest.pet_id DESC, latest.species ASC`
	if f.Randomize {
		order = `ORDER BY random()`
	}
	query := `SELECT` + feedSelectColumns + feedFromClause + feedWhereClause + `
	` + order + `
	LIMIT $12 OFFSET $13`

	args := append(feedArgs(f), f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []profiles.FeedItem
	for rows.Next() {
		item, err := scanFeedItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ProfilesRepo) CountFeed(ctx context.Context, f profiles.FeedFilter) (int, error) {
	query := `SELECT count(*)` + feedFromClause + feedWhereClause

	var total int
	if err := r.db.QueryRowContext(ctx, query, feedArgs(f)...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ProfilesRepo) ActiveScrapedBetween(ctx context.Context, source string, from, to time.Time) ([]profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (p.pet_id, p.species)
			p.pet_id, p.species, p.url,
			p.name, p.breed, p.gender, p.age_raw,
			p.age_months, p.weight_lbs,
			p.location, p.status, p.ratings, p.description, p.media,
			p.scraped_at
		FROM pet_profiles AS p
		JOIN pet_status AS s
		  ON s.link = p.url
		 AND s.source = $1
		 AND s.is_active = true
		WHERE p.scraped_at >= $2
		  AND p.scraped_at < $3
		ORDER BY p.pet_id, p.species, p.scraped_at DESC
	`, source, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []profiles.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (profiles.Profile, error) {
	var (
		p       profiles.Profile
		ratings []byte
		media   []byte
	)
	err := row.Scan(
		&p.PetID,
		&p.Species,
		&p.URL,
		&p.Name,
		&p.Breed,
		&p.Gender,
		&p.AgeRaw,
		&p.AgeMonths,
		&p.WeightLbs,
		&p.Location,
		&p.Status,
		&ratings,
		&p.Description,
		&media,
		&p.ScrapedAt,
	)
	if err != nil {
		return profiles.Profile{}, err
	}
	if err := unmarshalProfileJSON(&p, ratings, media); err != nil {
		return profiles.Profile{}, err
	}
	return p, nil
}

func scanFeedItem(rows *sql.Rows) (profiles.FeedItem, error) {
	var (
		item    profiles.FeedItem
		ratings []byte
		media   []byte
	)
	err := rows.Scan(
		&item.PetID,
		&item.Species,
		&item.URL,
		&item.Name,
		&item.Breed,
		&item.Gender,
		&item.AgeRaw,
		&item.AgeMonths,
		&item.WeightLbs,
		&item.Location,
		&item.Status,
		&ratings,
		&item.Description,
		&media,
		&item.ScrapedAt,
		&item.Source,
	)
	if err != nil {
		return profiles.FeedItem{}, err
	}
	if err := unmarshalProfileJSON(&item.Profile, ratings, media); err != nil {
		return profiles.FeedItem{}, err
	}
	return item, nil
}

func unmarshalProfileJSON(p *profiles.Profile, ratings, media []byte) error {
	if len(ratings) > 0 {
		if err := json.Unmarshal(ratings, &p.Ratings); err != nil {
			return fmt.Errorf("unmarshaling ratings for pet %d: %w", p.PetID, err)
		}
	}
	if p.Ratings == nil {
		p.Ratings = map[profiles.RatingCategory]int{}
	}
	if len(media) > 0 {
		if err := json.Unmarshal(media, &p.Media); err != nil {
			return fmt.Errorf("unmarshaling media for pet %d: %w", p.PetID, err)
		}
	}
	return nil
}

// likePattern escapa los metacaracteres de ILIKE y arma el patrón de
// substring.
func likePattern(value string) string {
	if value == "" {
		return ""
	}
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
	return "%" + escaped + "%"
}
