// Package tx carries a *sql.Tx through context so one store type serves both
// transactional and plain calls.
package tx

import (
	"context"
	"database/sql"
	"time"

	dErrors "donorlink/pkg/domain-errors"
)

type ctxKey struct{}

func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tx)
}

func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx, ok
}

// Querier is what stores need from *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor returns the transaction carried by ctx, falling back to db.
func Executor(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// Options tunes Run.
type Options struct {
	// Timeout bounds the transaction when ctx has no deadline of its own.
	Timeout   time.Duration
	TxOptions *sql.TxOptions
	// Setup runs first inside the transaction, e.g. SET LOCAL statements.
	Setup func(ctx context.Context, tx *sql.Tx) error
	// Classify maps driver errors from begin and commit to store errors.
	Classify func(err error, op string) error
}

// Run begins a transaction, calls fn with a context carrying it and commits.
// Any error from Setup or fn rolls everything back and is returned unchanged.
func Run(ctx context.Context, db *sql.DB, opts Options, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	classify := opts.Classify
	if classify == nil {
		classify = func(err error, op string) error {
			return dErrors.Wrap(err, dErrors.CodeInternal, op)
		}
	}

	tx, err := db.BeginTx(ctx, opts.TxOptions)
	if err != nil {
		return classify(err, "begin tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if opts.Setup != nil {
		if err := opts.Setup(ctx, tx); err != nil {
			return err
		}
	}
	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify(err, "commit tx")
	}
	return nil
}
