// Package postgres implementa los repositorios sobre Postgres vía pgx
// (modo database/sql).
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNotFound = errors.New("not found")

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables; el scraper corre una vez por día y la API es
	// de bajo tráfico
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas si no existen. Se corre una sola vez al
// inicio de cada proceso, antes del trabajo concurrente por source.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pet_profiles (
			pet_id      INTEGER NOT NULL,
			species     TEXT NOT NULL,
			url         TEXT NOT NULL,
			name        TEXT,
			breed       TEXT,
			gender      TEXT,
			age_raw     TEXT,
			age_months  DOUBLE PRECISION,
			weight_lbs  DOUBLE PRECISION,
			location    TEXT,
			status      TEXT,
			ratings     JSONB NOT NULL DEFAULT '{}'::jsonb,
			description TEXT,
			media       JSONB NOT NULL DEFAULT '{}'::jsonb,
			scraped_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (pet_id, species, scraped_at)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pet_profiles_url ON pet_profiles (url)`,
		`CREATE INDEX IF NOT EXISTS idx_pet_profiles_scraped_at ON pet_profiles (scraped_at DESC)`,
		`CREATE TABLE IF NOT EXISTS pet_status (
			source         TEXT NOT NULL,
			link           TEXT NOT NULL,
			species_hint   TEXT,
			is_active      BOOLEAN NOT NULL DEFAULT false,
			last_active_at TIMESTAMPTZ,
			PRIMARY KEY (source, link)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pet_status_link ON pet_status (link)`,
		`CREATE TABLE IF NOT EXISTS cached_links (
			id         BIGSERIAL PRIMARY KEY,
			source     TEXT NOT NULL,
			links      JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cached_links_source ON cached_links (source, fetched_at DESC)`,
		`CREATE TABLE IF NOT EXISTS pet_swipes (
			id         BIGSERIAL PRIMARY KEY,
			viewer_key TEXT NOT NULL,
			pet_id     INTEGER NOT NULL,
			species    TEXT NOT NULL,
			direction  TEXT NOT NULL CHECK (direction IN ('left', 'right')),
			source     TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pet_swipes_viewer ON pet_swipes (viewer_key, pet_id, species, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS pet_likes (
			viewer_key TEXT NOT NULL,
			pet_id     INTEGER NOT NULL,
			species    TEXT NOT NULL,
			source     TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (viewer_key, pet_id, species)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pet_likes_created ON pet_likes (viewer_key, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS send_history (
			recipient     TEXT NOT NULL,
			pet_id        INTEGER NOT NULL,
			species       TEXT NOT NULL,
			first_sent_at TIMESTAMPTZ NOT NULL,
			last_sent_at  TIMESTAMPTZ NOT NULL,
			send_count    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (recipient, pet_id, species)
		)`,
		`CREATE TABLE IF NOT EXISTS subscribers (
			email      TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
