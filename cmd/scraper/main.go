package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"pet-adoption-radar/internal/adapters/mailer/smtp"
	"pet-adoption-radar/internal/adapters/storage/memory"
	"pet-adoption-radar/internal/adapters/storage/postgres"
	"pet-adoption-radar/internal/aggregator"
	"pet-adoption-radar/internal/config"
	"pet-adoption-radar/internal/domain/digest"
	"pet-adoption-radar/internal/domain/links"
	"pet-adoption-radar/internal/domain/profiles"
	"pet-adoption-radar/internal/platform/httpclient"
	"pet-adoption-radar/internal/platform/logger"
	"pet-adoption-radar/internal/providers"
)

func main() {
	var (
		force     bool
		noEmail   bool
		noStorage bool
		dryRun    bool
		loop      bool
	)

	root := &cobra.Command{
		Use:   "scraper",
		Short: "Scrapes shelter sites and sends the adoptable-pets digest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			cfg := config.FromEnv()
			log := logger.NewFromEnv()

			app, cleanup, err := buildApp(cfg, log, noStorage)
			if err != nil {
				return err
			}
			defer cleanup()

			runCycle := func() {
				ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
				defer cancel()

				report := app.agg.Run(ctx, aggregator.RunOptions{
					Force:   force,
					Persist: !noStorage,
				})

				if noEmail {
					log.Info("email disabled; skipping digest", map[string]any{
						"eligible": len(report.Eligible),
					})
					return
				}
				configured := digest.ParseEmailList(cfg.EmailsTo)
				recipients := app.digest.Recipients(ctx, configured)
				if len(recipients) == 0 {
					log.Info("no valid email recipients configured", nil)
					return
				}
				app.digest.SendDigest(ctx, recipients, report.Eligible, dryRun)
			}

			if !loop {
				runCycle()
				return nil
			}

			tz, err := time.LoadLocation(cfg.Timezone)
			if err != nil {
				log.Warn("invalid timezone; using UTC", map[string]any{"tz": cfg.Timezone})
				tz = time.UTC
			}

			runCycle()
			scheduler := cron.New(cron.WithLocation(tz))
			if _, err := scheduler.AddFunc(cfg.ScrapeCron, runCycle); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", cfg.ScrapeCron, err)
			}
			log.Info("scheduler started", map[string]any{"cron": cfg.ScrapeCron, "tz": tz.String()})
			scheduler.Start()
			<-cmd.Context().Done()
			<-scheduler.Stop().Done()
			return nil
		},
	}

	root.Flags().BoolVar(&force, "force", false, "scrape live even if sources were already scraped today")
	root.Flags().BoolVar(&noEmail, "no-email", false, "skip sending the digest")
	root.Flags().BoolVar(&noStorage, "no-storage", false, "skip the database entirely (ephemeral run)")
	root.Flags().BoolVar(&dryRun, "dry-run", false, "build the digest but do not send or record history")
	root.Flags().BoolVar(&loop, "loop", false, "keep running on the configured schedule instead of once")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	agg    *aggregator.Aggregator
	digest *digest.Service
}

func buildApp(cfg config.Config, log logger.Logger, noStorage bool) (*app, func(), error) {
	cleanup := func() {}

	var (
		profilesRepo profiles.Repository
		linksRepo    links.Repository
		historyRepo  digest.HistoryRepository
	)

	if !noStorage && cfg.DBDSN != "" {
		db, err := postgres.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = postgres.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensuring schema: %w", err)
		}
		cleanup = func() { _ = db.Close() }
		profilesRepo = postgres.NewProfilesRepo(db)
		linksRepo = postgres.NewLinksRepo(db)
		historyRepo = postgres.NewHistoryRepo(db)
	} else {
		store := memory.NewStore()
		profilesRepo = store
		linksRepo = store
		historyRepo = store
	}

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		tz = time.UTC
	}

	deps := providers.Deps{
		Client: httpclient.New(httpclient.DefaultTimeout),
		Cache:  links.NewCache(linksRepo),
		Log:    log,
	}
	provs, err := providers.BySources(deps, cfg.Sources)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	agg := aggregator.New(provs, profilesRepo, linksRepo, log, tz, cfg.MaxAgeMonths, nil)

	mail := smtp.New(smtp.Config{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
	digestSvc := digest.NewService(historyRepo, mail, log, nil)

	return &app{agg: agg, digest: digestSvc}, cleanup, nil
}
