package sqlite

import (
	"context"
	"database/sql"
	"time"

	"donorlink/internal/donation/service"
	txcontext "donorlink/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Tx implements service.DonationStoreTx over a SQLite handle. The DSN opens
// every transaction with BEGIN IMMEDIATE, so writers queue on the one
// connection instead of deadlocking on lock upgrades.
type Tx struct {
	db       *sql.DB
	stores   service.Stores
	opts     txcontext.Options
	readOpts txcontext.Options
}

// NewTx returns a transaction runner. A zero timeout uses the default.
func NewTx(db *sql.DB, timeout time.Duration) *Tx {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &Tx{
		db:     db,
		stores: NewStores(db),
		opts:   txcontext.Options{Timeout: timeout, Classify: classify},
		readOpts: txcontext.Options{
			Timeout:   timeout,
			TxOptions: &sql.TxOptions{ReadOnly: true},
			Classify:  classify,
		},
	}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	return txcontext.Run(ctx, t.db, t.opts, func(ctx context.Context) error {
		return fn(ctx, t.stores)
	})
}

// RunInReadTx runs fn in a deferred read transaction. Under WAL it reads one
// snapshot without taking the write lock.
func (t *Tx) RunInReadTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	return txcontext.Run(ctx, t.db, t.readOpts, func(ctx context.Context) error {
		return fn(ctx, t.stores)
	})
}
