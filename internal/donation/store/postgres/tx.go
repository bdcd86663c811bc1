package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"donorlink/internal/donation/service"
	txcontext "donorlink/pkg/platform/tx"
)

const (
	defaultTxTimeout   = 5 * time.Second
	defaultLockTimeout = 2 * time.Second
)

// Tx implements service.DonationStoreTx with READ COMMITTED transactions and
// a per-transaction lock_timeout.
type Tx struct {
	db       *sql.DB
	stores   service.Stores
	opts     txcontext.Options
	readOpts txcontext.Options
}

// NewTx returns a transaction runner. Zero durations use the defaults.
func NewTx(db *sql.DB, timeout, lockTimeout time.Duration) *Tx {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	// SET does not accept bind parameters.
	setLock := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
	return &Tx{
		db:     db,
		stores: NewStores(db),
		opts: txcontext.Options{
			Timeout:   timeout,
			TxOptions: &sql.TxOptions{Isolation: sql.LevelReadCommitted},
			Setup: func(ctx context.Context, tx *sql.Tx) error {
				if _, err := tx.ExecContext(ctx, setLock); err != nil {
					return classify(err, "set lock timeout")
				}
				return nil
			},
			Classify: classify,
		},
		readOpts: txcontext.Options{
			Timeout:   timeout,
			TxOptions: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
			Classify:  classify,
		},
	}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	return txcontext.Run(ctx, t.db, t.opts, func(ctx context.Context) error {
		return fn(ctx, t.stores)
	})
}

// RunInReadTx runs fn in a read-only REPEATABLE READ transaction, so every
// statement sees the snapshot taken by the first one.
func (t *Tx) RunInReadTx(ctx context.Context, fn func(ctx context.Context, stores service.Stores) error) error {
	return txcontext.Run(ctx, t.db, t.readOpts, func(ctx context.Context) error {
		return fn(ctx, t.stores)
	})
}
