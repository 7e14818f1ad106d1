package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type LinksRepo struct {
	db *sql.DB
}

func NewLinksRepo(db *sql.DB) *LinksRepo {
	return &LinksRepo{db: db}
}

func (r *LinksRepo) CachedLinks(ctx context.Context, source string, maxAge time.Duration) ([]string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT links
		FROM cached_links
		WHERE source = $1
		  AND fetched_at >= $2
		ORDER BY fetched_at DESC
		LIMIT 1
	`, source, time.Now().UTC().Add(-maxAge))

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling cached links for %s: %w", source, err)
	}
	return out, nil
}

func (r *LinksRepo) StoreCachedLinks(ctx context.Context, source string, linkSet []string) error {
	raw, err := json.Marshal(linkSet)
	if err != nil {
		return fmt.Errorf("marshaling cached links for %s: %w", source, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cached_links (source, links, fetched_at)
		VALUES ($1, $2, $3)
	`, source, raw, time.Now().UTC())
	return err
}

func (r *LinksRepo) MarkStatus(ctx context.Context, source string, linkSet []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// flip de generación: primero todo inactivo, después la generación
	// nueva activa; un lector nunca ve generaciones mezcladas
	if _, err := tx.ExecContext(ctx, `
		UPDATE pet_status
		SET is_active = false
		WHERE source = $1
	`, source); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, link := range linkSet {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pet_status (source, link, is_active, last_active_at)
			VALUES ($1, $2, true, $3)
			ON CONFLICT (source, link)
			DO UPDATE SET is_active = true, last_active_at = EXCLUDED.last_active_at
		`, source, link, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}
