// Command stocktraild runs the inventory ledger HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stocktrail/stocktrail/internal/api"
	"github.com/stocktrail/stocktrail/internal/config"
	"github.com/stocktrail/stocktrail/internal/db"
	"github.com/stocktrail/stocktrail/internal/db/migrations"
	"github.com/stocktrail/stocktrail/internal/dbpool"
	"github.com/stocktrail/stocktrail/internal/metrics"
	"github.com/stocktrail/stocktrail/internal/service"
	"github.com/stocktrail/stocktrail/internal/store"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	base := store.Base{Pool: pool, Log: log}
	itemStore := store.NewItemStore(base)
	auditStore := store.NewAuditStore(base)
	summaryStore := store.NewSummaryStore(base)

	if n, err := itemStore.CountItems(ctx); err != nil {
		log.WithError(err).Warn("failed to seed item count gauge")
	} else {
		metrics.ItemCount.Set(float64(n))
	}

	deps := &api.RouterDeps{
		Log:         log,
		Pool:        pool,
		Ledger:      service.NewLedgerService(itemStore, log),
		Audit:       service.NewAuditService(auditStore, log),
		Summary:     service.NewSummaryService(summaryStore, auditStore, log),
		ActorLookup: &base,
		CORSOrigins: cfg.CORSOrigins,
		Version:     version,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr(),
			"version": version,
		}).Info("server listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.WithError(err).Fatal("server failed")
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}

	log.Info("server stopped")
}
