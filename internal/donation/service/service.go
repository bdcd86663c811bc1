package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"donorlink/internal/audit"
	"donorlink/internal/donation/metrics"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
)

// DonorStore reads and writes donor rows joined with the person attributes
// (name, blood type, gender) the engine consumes.
type DonorStore interface {
	FindProfile(ctx context.Context, donorID id.DonorID) (*models.DonorProfile, error)
	// FindProfileForUpdate locks the donor row until the surrounding transaction ends.
	FindProfileForUpdate(ctx context.Context, donorID id.DonorID) (*models.DonorProfile, error)
	Update(ctx context.Context, donor *models.Donor) error
	ListAvailable(ctx context.Context, bloodTypes []models.BloodType, now time.Time) ([]*models.AvailableDonor, error)
	ListTotals(ctx context.Context) (map[id.DonorID]int, error)
}

type ReceiverStore interface {
	FindByID(ctx context.Context, receiverID id.ReceiverID) (*models.Receiver, error)
	FindByIDForUpdate(ctx context.Context, receiverID id.ReceiverID) (*models.Receiver, error)
	Update(ctx context.Context, receiver *models.Receiver) error
	ListActiveDueBefore(ctx context.Context, deadline time.Time) ([]*models.Receiver, error)
	ListCounters(ctx context.Context) (map[id.ReceiverID]int, error)
}

type AssignmentStore interface {
	FindByIDForUpdate(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
}

// LedgerStore is append-only.
type LedgerStore interface {
	Append(ctx context.Context, entry *models.LedgerEntry) error
	ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.LedgerEntry, error)
	ListByReceiver(ctx context.Context, receiverID id.ReceiverID) ([]*models.LedgerEntry, error)
	CountCompletedByDonors(ctx context.Context, donorIDs []id.DonorID) (map[id.DonorID]int, error)
	CountCompletedByReceivers(ctx context.Context, receiverIDs []id.ReceiverID) (map[id.ReceiverID]int, error)
}

type OutboxStore interface {
	Append(ctx context.Context, entry *audit.OutboxEntry) error
}

// Stores groups the repositories one donation touches. Inside RunInTx every
// store participates in the same transaction.
type Stores struct {
	Donors      DonorStore
	Receivers   ReceiverStore
	Assignments AssignmentStore
	Ledger      LedgerStore
	Outbox      OutboxStore
}

// DonationStoreTx provides the transactional boundary for donation writes.
// fn's ctx carries the transaction; returning an error rolls everything back.
type DonationStoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
	// RunInReadTx runs read-only work against one consistent snapshot.
	RunInReadTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}

// StatsCache caches ledger-derived donor stats. version is the donor's
// committed TotalDonations when the stats were computed; an entry is only
// served for the same version. Get returns sentinel.ErrNotFound on a miss.
type StatsCache interface {
	Get(ctx context.Context, donorID id.DonorID, version int) (*models.DonorStats, error)
	Set(ctx context.Context, stats *models.DonorStats, version int) error
	Invalidate(ctx context.Context, donorID id.DonorID, version int) error
}

// Service coordinates donations and answers donor/receiver queries.
// It is the only writer of donor and receiver counters.
type Service struct {
	tx                   DonationStoreTx
	stores               Stores
	logger               *slog.Logger
	metrics              *metrics.Metrics
	statsCache           StatsCache
	tracer               trace.Tracer
	enforceCompatibility bool
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithStatsCache(cache StatsCache) Option {
	return func(s *Service) {
		s.statsCache = cache
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithCompatibilityEnforcement rejects assignment donations whose donor blood
// type cannot give to the receiver.
func WithCompatibilityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCompatibility = enabled
	}
}

// New constructs a Service. stores serves reads outside a transaction.
func New(tx DonationStoreTx, stores Stores, opts ...Option) *Service {
	s := &Service{
		tx:     tx,
		stores: stores,
		logger: slog.Default(),
		tracer: otel.Tracer("donorlink/donation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
