package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"pet-adoption-radar/internal/adapters/storage/postgres"
	"pet-adoption-radar/internal/config"
	"pet-adoption-radar/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("opening database: %v", err)
		}
		db = opened
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			cancel()
			log.Fatalf("ensuring schema: %v", err)
		}
		cancel()
	}

	r := router.NewRouter(router.Options{Config: cfg, DB: db})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
