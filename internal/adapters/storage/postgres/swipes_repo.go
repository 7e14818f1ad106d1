package postgres

import (
	"context"
	"database/sql"

	"pet-adoption-radar/internal/domain/swipes"
)

type SwipesRepo struct {
	db *sql.DB
}

func NewSwipesRepo(db *sql.DB) *SwipesRepo {
	return &SwipesRepo{db: db}
}

func (r *SwipesRepo) Record(ctx context.Context, sw swipes.Swipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pet_swipes (viewer_key, pet_id, species, direction, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sw.ViewerKey, sw.PetID, sw.Species, string(sw.Direction), sw.Source, sw.CreatedAt); err != nil {
		return err
	}

	if sw.Direction == swipes.DirectionRight {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO pet_likes (viewer_key, pet_id, species, source, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (viewer_key, pet_id, species)
			DO UPDATE SET source = EXCLUDED.source, created_at = EXCLUDED.created_at
		`, sw.ViewerKey, sw.PetID, sw.Species, sw.Source, sw.CreatedAt); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM pet_likes
			WHERE viewer_key = $1 AND pet_id = $2 AND species = $3
		`, sw.ViewerKey, sw.PetID, sw.Species); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SwipesRepo) LatestByViewer(ctx context.Context, viewerKey string) ([]swipes.Swipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (pet_id, species)
			viewer_key, pet_id, species, direction, COALESCE(source, ''), created_at
		FROM pet_swipes
		WHERE viewer_key = $1
		ORDER BY pet_id, species, created_at DESC
	`, viewerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []swipes.Swipe
	for rows.Next() {
		var sw swipes.Swipe
		var direction string
		if err := rows.Scan(&sw.ViewerKey, &sw.PetID, &sw.Species, &direction, &sw.Source, &sw.CreatedAt); err != nil {
			return nil, err
		}
		sw.Direction = swipes.Direction(direction)
		out = append(out, sw)
	}
	return out, rows.Err()
}

func (r *SwipesRepo) Likes(ctx context.Context, viewerKey string, limit, offset int) ([]swipes.Like, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT viewer_key, pet_id, species, COALESCE(source, ''), created_at
		FROM pet_likes
		WHERE viewer_key = $1
		ORDER BY created_at DESC, pet_id DESC
		LIMIT $2 OFFSET $3
	`, viewerKey, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []swipes.Like
	for rows.Next() {
		var like swipes.Like
		if err := rows.Scan(&like.ViewerKey, &like.PetID, &like.Species, &like.Source, &like.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, like)
	}
	return out, rows.Err()
}

func (r *SwipesRepo) CountLikes(ctx context.Context, viewerKey string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM pet_likes WHERE viewer_key = $1
	`, viewerKey).Scan(&total)
	return total, err
}
