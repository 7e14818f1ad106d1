package swipes

import "context"

type Repository interface {
	// Record appendea el evento y mantiene el set de likes: un right
	// upsertea el like (pisando created_at y source), un left lo borra.
	// Ambas escrituras van en la misma transacción.
	Record(ctx context.Context, s Swipe) error

	// LatestByViewer devuelve el último swipe por (pet_id, species) del
	// viewer; swipes anteriores sobre la misma mascota no cuentan.
	LatestByViewer(ctx context.Context, viewerKey string) ([]Swipe, error)

	// Likes devuelve los likes vigentes del viewer, más reciente primero.
	Likes(ctx context.Context, viewerKey string, limit, offset int) ([]Like, error)
	CountLikes(ctx context.Context, viewerKey string) (int, error)
}
