package postgres

import (
	"context"
	"database/sql"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) SentKeys(ctx context.Context, recipient string) (map[profiles.Key]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pet_id, species
		FROM send_history
		WHERE recipient = $1
	`, recipient)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[profiles.Key]struct{}{}
	for rows.Next() {
		var key profiles.Key
		if err := rows.Scan(&key.PetID, &key.Species); err != nil {
			return nil, err
		}
		out[key] = struct{}{}
	}
	return out, rows.Err()
}

func (r *HistoryRepo) RecordSent(ctx context.Context, recipient string, keys []profiles.Key, at time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range keys {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO send_history (recipient, pet_id, species, first_sent_at, last_sent_at, send_count)
			VALUES ($1, $2, $3, $4, $4, 1)
			ON CONFLICT (recipient, pet_id, species)
			DO UPDATE SET last_sent_at = EXCLUDED.last_sent_at,
			              send_count = send_history.send_count + 1
		`, recipient, key.PetID, key.Species, at); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *HistoryRepo) Subscribers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT email FROM subscribers ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}

func (r *HistoryRepo) AddSubscriber(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscribers (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`, email)
	return err
}
