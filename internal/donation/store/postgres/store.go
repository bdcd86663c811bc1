// Package postgres provides the PostgreSQL-backed donation storage. Rows a
// donation mutates are locked with SELECT ... FOR UPDATE in the fixed order
// donor, assignment, receiver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"donorlink/internal/donation/service"
	"donorlink/internal/donation/store/postgres/migrations"
	"donorlink/internal/platform/database"
	"donorlink/internal/platform/migrate"
	"donorlink/pkg/platform/sentinel"
)

const (
	codeLockNotAvailable     = "55P03"
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
	codeQueryCanceled        = "57014"
)

// Open connects with cfg and applies embedded migrations.
func Open(ctx context.Context, cfg database.Config) (*sql.DB, error) {
	db, err := database.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded migrations to db.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := migrate.Apply(ctx, db, migrate.Postgres, migrations.FS, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// NewStores binds every donation store to db. Calls made with a context from
// Tx.RunInTx join that transaction.
func NewStores(db *sql.DB) service.Stores {
	return service.Stores{
		Donors:      NewDonorStore(db),
		Receivers:   NewReceiverStore(db),
		Assignments: NewAssignmentStore(db),
		Ledger:      NewLedgerStore(db),
		Outbox:      NewOutboxStore(db),
	}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: value.UTC(), Valid: true}
}

func timePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

func nullID[T ~int64](value *T) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func idPtr[T ~int64](value sql.NullInt64) *T {
	if !value.Valid {
		return nil
	}
	v := T(value.Int64)
	return &v
}

func int64s[T ~int64](values []T) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

// classify maps lock waits, deadlocks and serialization failures onto
// sentinel.ErrUnavailable so services can surface a retryable timeout.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeDeadlockDetected, codeSerializationFailure, codeQueryCanceled:
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
