package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/skillcompass/skillcompass-engine/internal/api"
	"github.com/skillcompass/skillcompass-engine/internal/assessment"
	"github.com/skillcompass/skillcompass-engine/internal/auth"
	"github.com/skillcompass/skillcompass-engine/internal/catalog"
	"github.com/skillcompass/skillcompass-engine/internal/config"
	"github.com/skillcompass/skillcompass-engine/internal/db"
	"github.com/skillcompass/skillcompass-engine/internal/results"
	"github.com/skillcompass/skillcompass-engine/internal/session"
)

func main() {
	cfg := config.FromEnv()

	// --- Catalog ---
	var cat *assessment.Catalog
	var err error
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	// --- DB (result sink + admin listing) ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	sink := results.NewSQLStore(dbh, cfg.DBDriver)

	// --- Sessions ---
	var sessions session.Store
	if cfg.RedisAddr != "" {
		sessions, err = session.NewRedisStore(ctx, cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("redis session store: %v", err)
		}
		log.Printf("sessions: redis at %s", cfg.RedisAddr)
	} else {
		sessions = session.NewMemoryStore()
		log.Printf("sessions: in-memory")
	}

	var hook *results.Webhook
	if cfg.WebhookURL != "" {
		hook = results.NewWebhook(cfg.WebhookURL)
		log.Printf("result forwarding to %s", cfg.WebhookURL)
	}

	r := api.NewRouter(api.Options{
		Sessions:      sessions,
		Catalog:       cat,
		Results:       sink,
		Webhook:       hook,
		Auth:          auth.NewAuthService(cfg.AuthSecret),
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
		CORSOrigins:   cfg.CORSOrigins,
	})

	log.Printf("skillcompass engine listening on %s", cfg.HTTPAddr)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
