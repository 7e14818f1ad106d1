// Package providers implementa un adapter por shelter. Cada adapter expone
// exactamente dos operaciones (enumerar links, traer un perfil) y el
// aggregator solo conoce esa interfaz.
package providers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"pet-adoption-radar/internal/domain/links"
	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/platform/httpclient"
	"pet-adoption-radar/internal/platform/logger"
)

const (
	SourcePaws        = "paws_chicago"
	SourceWrightWay   = "wright_way"
	SourceAntiCruelty = "anti_cruelty"
)

type Provider interface {
	Source() string

	// ListActiveLinks devuelve el set de links de perfil vigentes.
	// Nunca devuelve vacío: un resultado vacío es una falla (para no
	// corromper la tabla de status con una generación vacía).
	// Con useCache, intenta cache fresco antes del fetch en vivo, y cae
	// al cache largo si el fetch en vivo falla.
	ListActiveLinks(ctx context.Context, useCache bool) ([]string, error)

	// FetchProfile trae y parsea un perfil. Falla con *ParseError cuando
	// falta el nodo estructural del animal; campos individuales ausentes
	// degradan a vacío/nil sin error.
	FetchProfile(ctx context.Context, url string) (profiles.Profile, error)
}

// Deps agrupa lo que comparten todos los adapters.
type Deps struct {
	Client *httpclient.Client
	Cache  *links.Cache
	Log    logger.Logger
	Now    func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// All devuelve el registry cerrado de providers. No hay dispatch por
// string fuera de acá.
func All(deps Deps) []Provider {
	return []Provider{
		NewPaws(deps),
		NewWrightWay(deps),
		NewAntiCruelty(deps),
	}
}

// BySources filtra el registry por los sources configurados, en el orden
// configurado. Source desconocido es error de configuración.
func BySources(deps Deps, sources []string) ([]Provider, error) {
	all := All(deps)
	byName := make(map[string]Provider, len(all))
	for _, p := range all {
		byName[p.Source()] = p
	}

	out := make([]Provider, 0, len(sources))
	for _, s := range sources {
		p, ok := byName[s]
		if !ok {
			return nil, fmt.Errorf("unknown source %q (options: %v)", s, knownSources(all))
		}
		out = append(out, p)
	}
	return out, nil
}

// mustAtoi convierte dígitos ya validados por regex.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func knownSources(all []Provider) []string {
	names := make([]string, 0, len(all))
	for _, p := range all {
		names = append(names, p.Source())
	}
	sort.Strings(names)
	return names
}

// listWithCache implementa la cadena común enumerar-con-fallback:
// cache fresco → fetch en vivo (+store) → cache largo → error.
func listWithCache(
	ctx context.Context,
	deps Deps,
	source string,
	useCache bool,
	fetchLive func(ctx context.Context) ([]string, error),
) ([]string, error) {
	log := deps.Log.With(map[string]any{"source": source})

	if useCache && deps.Cache != nil {
		cached, err := deps.Cache.Fresh(ctx, source)
		if err != nil {
			log.Warn("cache read failed; fetching live", map[string]any{"error": err.Error()})
		} else if len(cached) > 0 {
			log.Info("using cached links (fresh)", map[string]any{"count": len(cached)})
			return cached, nil
		}
	}

	live, liveErr := fetchLive(ctx)
	if liveErr == nil {
		if len(live) == 0 {
			liveErr = fmt.Errorf("no adoptable links discovered")
		} else {
			sort.Strings(live)
			log.Info("fetched live links", map[string]any{"count": len(live)})
			if useCache && deps.Cache != nil {
				if err := deps.Cache.Store(ctx, source, live); err != nil {
					log.Warn("failed to store links in cache", map[string]any{"error": err.Error()})
				}
			}
			return live, nil
		}
	}

	log.Warn("live fetch failed; falling back to cached links", map[string]any{"error": liveErr.Error()})
	if useCache && deps.Cache != nil {
		cached, err := deps.Cache.Fallback(ctx, source)
		if err == nil && len(cached) > 0 {
			log.Info("using cached links (stale)", map[string]any{"count": len(cached)})
			return cached, nil
		}
	}

	return nil, &FetchError{Source: source, Err: liveErr}
}
