package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DefaultMaxAgeMonths = 8.0
	DefaultScrapeCron   = "@daily"

	DefaultFeedLimit = 40
	MaxFeedLimit     = 200

	MaxBreedFilterLength = 80
	MaxNameFilterLength  = 80
)

// DefaultSources son los providers habilitados cuando SOURCES no viene por env.
var DefaultSources = []string{"paws_chicago", "wright_way", "anti_cruelty"}

type SMTP struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

type Config struct {
	// Postgres DSN; vacío => repos in-memory (modo dev).
	DBDSN string

	// Destinatarios fijos del digest (coma/; /newline separados).
	EmailsTo string
	SMTP     SMTP

	Sources      []string
	MaxAgeMonths float64
	ScrapeCron   string

	Timezone string

	HTTPAddr string
}

// FromEnv lee toda la configuración desde variables de entorno.
func FromEnv() Config {
	cfg := Config{
		DBDSN:        os.Getenv("DB_DSN"),
		EmailsTo:     os.Getenv("EMAILS_TO"),
		Sources:      parseSources(os.Getenv("SOURCES")),
		MaxAgeMonths: parseFloat(os.Getenv("MAX_AGE_MONTHS"), DefaultMaxAgeMonths),
		ScrapeCron:   defaultString(os.Getenv("SCRAPE_CRON"), DefaultScrapeCron),
		Timezone:     defaultString(os.Getenv("TZ"), "UTC"),
		HTTPAddr:     ":" + defaultString(os.Getenv("PORT"), "8080"),
		SMTP: SMTP{
			Host: os.Getenv("EMAIL_HOST"),
			Port: parseInt(os.Getenv("EMAIL_PORT"), 465),
			User: os.Getenv("EMAIL_USER"),
			Pass: os.Getenv("EMAIL_PASS"),
			From: os.Getenv("EMAIL_FROM"),
		},
	}
	return cfg
}

func parseSources(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSources...)
	}
	return out
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
