// Package links maneja el estado activo/inactivo de los listings por
// source y el cache de link-sets con TTL.
package links

import (
	"context"
	"time"
)

const (
	// FreshTTL: usar cache en lugar de fetch en vivo.
	FreshTTL = 24 * time.Hour

	// FallbackFactor: ventana larga para el fallback de emergencia cuando
	// el fetch en vivo falla; una caída extendida del provider no borra
	// los listings conocidos.
	FallbackFactor = 365
)

// Status es el registro activo/inactivo de un link. is_active se
// recalcula por corrida: exactamente los links de la última enumeración
// exitosa del source quedan activos; el resto, inactivo.
type Status struct {
	Source       string
	Link         string
	SpeciesHint  string
	Active       bool
	LastActiveAt time.Time
}

type Repository interface {
	// CachedLinks devuelve el link-set más fresco del source, o nil
	// (cache miss) cuando no hay entrada o la más fresca supera maxAge.
	CachedLinks(ctx context.Context, source string, maxAge time.Duration) ([]string, error)

	// StoreCachedLinks guarda una generación nueva del link-set.
	StoreCachedLinks(ctx context.Context, source string, links []string) error

	// MarkStatus flipea la generación activa del source en una sola
	// transacción: los links dados quedan activos, todos los demás del
	// source quedan inactivos. Un lector nunca ve generaciones mezcladas.
	MarkStatus(ctx context.Context, source string, links []string) error
}

// Cache es la vista que consumen los providers: dos niveles de frescura
// sobre el mismo repo.
type Cache struct {
	repo     Repository
	freshTTL time.Duration
}

func NewCache(repo Repository) *Cache {
	return &Cache{repo: repo, freshTTL: FreshTTL}
}

// Fresh devuelve links cacheados dentro del TTL corto, o nil.
func (c *Cache) Fresh(ctx context.Context, source string) ([]string, error) {
	return c.repo.CachedLinks(ctx, source, c.freshTTL)
}

// Fallback devuelve links cacheados dentro de la ventana larga, o nil.
// Solo se usa cuando el fetch en vivo falló.
func (c *Cache) Fallback(ctx context.Context, source string) ([]string, error) {
	return c.repo.CachedLinks(ctx, source, time.Duration(FallbackFactor)*c.freshTTL)
}

func (c *Cache) Store(ctx context.Context, source string, links []string) error {
	return c.repo.StoreCachedLinks(ctx, source, links)
}
