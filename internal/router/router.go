package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	mem "pet-adoption-radar/internal/adapters/storage/memory"
	pg "pet-adoption-radar/internal/adapters/storage/postgres"
	"pet-adoption-radar/internal/config"
	"pet-adoption-radar/internal/domain/digest"
	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/domain/swipes"
	"pet-adoption-radar/internal/middleware"
)

type Options struct {
	Config config.Config

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.ViewerContext())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		profilesRepo   profiles.Repository
		swipesRepo     swipes.Repository
		subscriberRepo digest.SubscriberRepository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		profilesRepo = pg.NewProfilesRepo(db)
		swipesRepo = pg.NewSwipesRepo(db)
		subscriberRepo = pg.NewHistoryRepo(db)
	} else {
		store := mem.NewStore()
		profilesRepo = store
		swipesRepo = store
		subscriberRepo = store
	}

	sources := opts.Config.Sources
	if len(sources) == 0 {
		sources = config.DefaultSources
	}
	maxAge := opts.Config.MaxAgeMonths
	if maxAge <= 0 {
		maxAge = config.DefaultMaxAgeMonths
	}

	profilesSvc := profiles.NewService(profilesRepo, sources, maxAge)
	swipesSvc := swipes.NewService(swipesRepo, nil)

	profiles.RegisterRoutes(r, profilesSvc)
	swipes.RegisterRoutes(r, swipesSvc)
	digest.RegisterRoutes(r, subscriberRepo)

	return r
}
