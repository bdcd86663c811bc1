// Command reconcile checks cached donor and receiver counters against the
// donation ledger and prints the report as JSON. It exits 2 when drift is found.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"donorlink/internal/donation/service"
	"donorlink/internal/donation/store/postgres"
	"donorlink/internal/donation/store/sqlite"
	"donorlink/internal/platform/config"
	"donorlink/internal/platform/database"
	"donorlink/internal/platform/logger"
)

const exitDrift = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	consistent, err := run(context.Background(), cfg, log)
	if err != nil {
		log.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}
	if !consistent {
		os.Exit(exitDrift)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) (bool, error) {
	var (
		db     *sql.DB
		stores service.Stores
		tx     service.DonationStoreTx
		err    error
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err = database.Open(ctx, database.Config{URL: cfg.Store.DatabaseURL, MaxOpenConns: 2})
		if err != nil {
			return false, err
		}
		stores, tx = postgres.NewStores(db), postgres.NewTx(db, cfg.Store.TxTimeout, cfg.Store.LockTimeout)
	default:
		db, err = sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return false, err
		}
		stores, tx = sqlite.NewStores(db), sqlite.NewTx(db, cfg.Store.TxTimeout)
	}
	defer db.Close()

	report, err := service.New(tx, stores, service.WithLogger(log)).Reconcile(ctx)
	if err != nil {
		return false, err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return false, fmt.Errorf("write report: %w", err)
	}
	if !report.Consistent() {
		log.Warn("counter drift found", "drift", len(report.Drift))
	}
	return report.Consistent(), nil
}
