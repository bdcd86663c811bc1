// Package cache stores ledger-derived donor stats in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	"donorlink/pkg/platform/circuit"
	"donorlink/pkg/platform/sentinel"
)

const (
	keyPrefix            = "donor:stats:"
	defaultTTL           = 5 * time.Minute
	defaultProbeInterval = 5 * time.Second
)

// errCircuitOpen is returned without contacting Redis while the breaker is open.
var errCircuitOpen = fmt.Errorf("donor stats cache circuit open: %w", sentinel.ErrUnavailable)

// StatsCache implements service.StatsCache. Keys carry the donor's committed
// donation total, so an entry computed before a donation is never read back
// once the total has moved. Entries expire after ttl.
//
// Reads and writes go through a circuit breaker. While it is open only one
// probe per probe interval reaches Redis; the rest fail fast so stats are
// computed from the ledger. Invalidations always reach Redis.
type StatsCache struct {
	client        redis.UniversalClient
	ttl           time.Duration
	breaker       *circuit.Breaker
	probeInterval time.Duration
	logger        *slog.Logger
	now           func() time.Time

	mu        sync.Mutex
	nextProbe time.Time
}

type Option func(*StatsCache)

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *StatsCache) { c.breaker = b }
}

func WithProbeInterval(d time.Duration) Option {
	return func(c *StatsCache) {
		if d > 0 {
			c.probeInterval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *StatsCache) { c.logger = logger }
}

func NewStatsCache(client redis.UniversalClient, ttl time.Duration, opts ...Option) *StatsCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	c := &StatsCache{
		client:        client,
		ttl:           ttl,
		breaker:       circuit.New("donor-stats-cache"),
		probeInterval: defaultProbeInterval,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// key is donor:stats:<donor id>:<total donations>.
func key(donorID id.DonorID, version int) string {
	return keyPrefix + donorID.String() + ":" + strconv.Itoa(version)
}

// Get returns sentinel.ErrNotFound on a miss.
func (c *StatsCache) Get(ctx context.Context, donorID id.DonorID, version int) (*models.DonorStats, error) {
	if !c.allow() {
		return nil, errCircuitOpen
	}
	raw, err := c.client.Get(ctx, key(donorID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record(ctx, nil)
		return nil, sentinel.ErrNotFound
	}
	c.record(ctx, err)
	if err != nil {
		return nil, fmt.Errorf("get donor stats: %w", err)
	}
	var stats models.DonorStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A corrupt entry is a miss; the next Set overwrites it.
		return nil, fmt.Errorf("decode donor stats: %w", sentinel.ErrNotFound)
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, stats *models.DonorStats, version int) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode donor stats: %w", err)
	}
	if !c.allow() {
		return errCircuitOpen
	}
	err = c.client.Set(ctx, key(stats.DonorID, version), raw, c.ttl).Err()
	c.record(ctx, err)
	if err != nil {
		return fmt.Errorf("set donor stats: %w", err)
	}
	return nil
}

// Invalidate drops the entry stored under version. Superseded versions are
// unreachable anyway; this only frees them before the ttl does.
func (c *StatsCache) Invalidate(ctx context.Context, donorID id.DonorID, version int) error {
	err := c.client.Del(ctx, key(donorID, version)).Err()
	c.record(ctx, err)
	if err != nil {
		return fmt.Errorf("invalidate donor stats: %w", err)
	}
	return nil
}

// allow reports whether a read or write may reach Redis.
func (c *StatsCache) allow() bool {
	if !c.breaker.IsOpen() {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Before(c.nextProbe) {
		return false
	}
	c.nextProbe = now.Add(c.probeInterval)
	return true
}

func (c *StatsCache) record(ctx context.Context, err error) {
	if err == nil {
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "donor stats cache recovered", "breaker", c.breaker.Name())
		}
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.mu.Lock()
		c.nextProbe = c.now().Add(c.probeInterval)
		c.mu.Unlock()
		c.logger.WarnContext(ctx, "donor stats cache degraded, serving from ledger",
			"breaker", c.breaker.Name(),
			"error", err,
		)
	}
}
