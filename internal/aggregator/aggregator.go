// Package aggregator orquesta una corrida de scraping: enumera links por
// provider, trae cada perfil, filtra elegibles por edad, persiste las
// observaciones y flipea la generación activa de links.
package aggregator

import (
	"context"
	"sort"
	"sync"
	"time"

	"pet-adoption-radar/internal/domain/links"
	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/platform/logger"
	"pet-adoption-radar/internal/providers"
)

// RunOptions controla una corrida puntual.
type RunOptions struct {
	// Force saltea el reuso same-day y scrapea en vivo aunque el source
	// ya haya corrido hoy.
	Force bool

	// Persist habilita el store: append de observaciones, flip de status
	// y reuso same-day. Sin Persist la corrida es efímera.
	Persist bool
}

// SourceReport es el diagnóstico por source de una corrida.
type SourceReport struct {
	Source   string
	Links    []string
	Profiles []profiles.Profile
	Failed   int
	Reused   bool
	Err      error
}

// Report agrega los resultados de todos los sources.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Sources []SourceReport

	// Eligible son los perfiles que pasan el filtro de edad, sobre el
	// total scrapeado (que se persiste completo).
	Eligible []profiles.Profile
	Failed   int
}

// All devuelve todos los perfiles scrapeados en la corrida.
func (r Report) All() []profiles.Profile {
	var out []profiles.Profile
	for _, s := range r.Sources {
		out = append(out, s.Profiles...)
	}
	return out
}

// Aggregator corre el ciclo ENUMERATE → FETCH → FILTER → PERSIST → MARK.
type Aggregator struct {
	provs        []providers.Provider
	profilesRepo profiles.Repository
	linksRepo    links.Repository
	log          logger.Logger
	tz           *time.Location
	maxAge       float64
	now          func() time.Time
}

func New(
	provs []providers.Provider,
	profilesRepo profiles.Repository,
	linksRepo links.Repository,
	log logger.Logger,
	tz *time.Location,
	maxAgeMonths float64,
	now func() time.Time,
) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if tz == nil {
		tz = time.UTC
	}
	return &Aggregator{
		provs:        provs,
		profilesRepo: profilesRepo,
		linksRepo:    linksRepo,
		log:          log,
		tz:           tz,
		maxAge:       maxAgeMonths,
		now:          now,
	}
}

// Run ejecuta una corrida completa. Las fallas por source y por perfil se
// aíslan y cuentan; nunca abortan el trabajo de los sources hermanos.
func (a *Aggregator) Run(ctx context.Context, opts RunOptions) Report {
	report := Report{StartedAt: a.now().UTC()}
	a.log.Info("starting scrape run", map[string]any{
		"sources": len(a.provs),
		"force":   opts.Force,
		"persist": opts.Persist,
	})

	results := make([]SourceReport, len(a.provs))
	var wg sync.WaitGroup
	for i, p := range a.provs {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()
			results[i] = a.scrapeSource(ctx, p, opts)
		}(i, p)
	}
	wg.Wait()

	for _, res := range results {
		report.Sources = append(report.Sources, res)
		report.Failed += res.Failed

		if opts.Persist && res.Err == nil {
			// El flip de status lleva el link-set completo de la corrida,
			// sin importar elegibilidad: "activo" es propiedad del
			// listing, no del filtro.
			if err := a.linksRepo.MarkStatus(ctx, res.Source, res.Links); err != nil {
				a.log.Warn("failed to mark link status", map[string]any{
					"source": res.Source, "error": err.Error(),
				})
			}
		}

		for _, p := range res.Profiles {
			if Eligible(p, a.maxAge) {
				report.Eligible = append(report.Eligible, p)
			}
		}
	}

	if opts.Persist {
		if batch := report.All(); len(batch) > 0 {
			// Se persiste todo lo scrapeado; el filtro de elegibilidad es
			// cosa del consumidor (email, feed), no del log.
			if err := a.profilesRepo.Store(ctx, batch); err != nil {
				a.log.Warn("failed to store profiles", map[string]any{"error": err.Error()})
			}
		}
	}

	if report.Failed > 0 {
		a.log.Warn("skipped profiles due to fetch errors", map[string]any{"failed": report.Failed})
	}

	report.FinishedAt = a.now().UTC()
	a.log.Info("scrape run finished", map[string]any{
		"eligible": len(report.Eligible),
		"total":    len(report.All()),
		"failed":   report.Failed,
	})
	return report
}

func (a *Aggregator) scrapeSource(ctx context.Context, p providers.Provider, opts RunOptions) SourceReport {
	source := p.Source()
	log := a.log.With(map[string]any{"source": source})
	res := SourceReport{Source: source}

	if opts.Persist && !opts.Force {
		from, to := a.localDayWindow()
		reused, err := a.profilesRepo.ActiveScrapedBetween(ctx, source, from, to)
		if err != nil {
			log.Warn("could not check same-day scrape; scraping live", map[string]any{"error": err.Error()})
		} else if len(reused) > 0 {
			log.Info("already scraped today; reusing stored profiles", map[string]any{"count": len(reused)})
			res.Reused = true
			res.Profiles = reused
			for _, pr := range reused {
				if pr.URL != "" {
					res.Links = append(res.Links, pr.URL)
				}
			}
			sort.Strings(res.Links)
			return res
		}
	}

	linkSet, err := p.ListActiveLinks(ctx, opts.Persist)
	if err != nil {
		log.Error("source enumeration failed", map[string]any{"error": err.Error()})
		res.Err = err
		return res
	}
	res.Links = append([]string(nil), linkSet...)
	sort.Strings(res.Links)

	total := len(res.Links)
	log.Info("starting source scrape", map[string]any{"links": total})
	for processed, url := range res.Links {
		profile, err := p.FetchProfile(ctx, url)
		if err != nil {
			res.Failed++
			log.Warn("skipping profile due to fetch error", map[string]any{
				"url": url, "error": err.Error(),
			})
		} else {
			res.Profiles = append(res.Profiles, profile)
		}
		log.Info("source progress", map[string]any{
			"processed": processed + 1,
			"remaining": total - processed - 1,
		})
	}
	log.Info("completed source scrape", map[string]any{
		"success": len(res.Profiles),
		"failed":  res.Failed,
	})
	return res
}

// localDayWindow devuelve [inicio, fin) del día local en UTC, para el
// chequeo de reuso same-day.
func (a *Aggregator) localDayWindow() (time.Time, time.Time) {
	nowLocal := a.now().In(a.tz)
	start := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, a.tz)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// Eligible aplica el umbral de edad: estricto menor-que, y una edad
// desconocida excluye aunque el resto del perfil sea válido.
func Eligible(p profiles.Profile, maxAgeMonths float64) bool {
	return p.AgeMonths != nil && *p.AgeMonths < maxAgeMonths
}
