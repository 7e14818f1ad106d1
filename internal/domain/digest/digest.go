// Package digest arma y despacha el resumen por correo: particiona los
// candidatos en nuevos vs ya enviados por destinatario y registra el
// historial de envíos.
package digest

import (
	"context"
	"errors"
	"time"

	"pet-adoption-radar/internal/domain/profiles"
)

// ErrHistoryUnavailable marca que el lookup de historial falló. El
// particionado degrada a "todo es nuevo": llegar de más gana sobre
// dedup perfecto.
var ErrHistoryUnavailable = errors.New("digest: send history unavailable")

// HistoryRepository es el contrato de persistencia del historial de
// envíos y de la lista de suscriptores.
type HistoryRepository interface {
	// SentKeys devuelve las mascotas ya enviadas al destinatario.
	SentKeys(ctx context.Context, recipient string) (map[profiles.Key]struct{}, error)

	// RecordSent upsertea el contador por (recipient, pet, species):
	// first_sent_at se fija una vez, last_sent_at y send_count avanzan
	// en cada envío real.
	RecordSent(ctx context.Context, recipient string, keys []profiles.Key, at time.Time) error

	// Subscribers devuelve las direcciones suscriptas vía la app.
	Subscribers(ctx context.Context) ([]string, error)
}

// Partition separa candidatos en nuevos y ya vistos según el set de
// claves del historial.
func Partition(candidates []profiles.Profile, seen map[profiles.Key]struct{}) (fresh, delivered []profiles.Profile) {
	for _, p := range candidates {
		if _, ok := seen[p.Key()]; ok {
			delivered = append(delivered, p)
		} else {
			fresh = append(fresh, p)
		}
	}
	return fresh, delivered
}
