package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/serenity-pos/api/internal/catalog"
	"github.com/serenity-pos/api/internal/config"
	"github.com/serenity-pos/api/internal/router"
	"github.com/serenity-pos/api/internal/session"
	"github.com/serenity-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	fallback := catalog.Defaults()
	if gst, err := decimal.NewFromString(cfg.GSTRatePercent); err == nil {
		fallback.GSTRatePercent = gst
	} else {
		log.Printf("WARN: invalid GST_RATE_PERCENT %q, keeping %s", cfg.GSTRatePercent, fallback.GSTRatePercent)
	}
	if rate, err := decimal.NewFromString(cfg.DefaultCommissionRate); err == nil {
		fallback.DefaultCommission = rate
	} else {
		log.Printf("WARN: invalid DEFAULT_COMMISSION_RATE %q, keeping %s", cfg.DefaultCommissionRate, fallback.DefaultCommission)
	}

	// Catalog configuration is fetched once per process. Without a database
	// the static defaults serve; with one, failures degrade to the same
	// defaults instead of blocking startup.
	snapshot := fallback
	degraded := false
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()

		snapshot, err = catalog.Load(ctx, catalog.NewPostgres(pool), fallback)
		if errors.Is(err, catalog.ErrUnavailable) {
			log.Printf("WARN: %v", err)
			degraded = true
		}
	} else {
		log.Println("No DATABASE_URL set, serving static catalog defaults")
	}

	store := session.NewStore()

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(store, snapshot, degraded, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
