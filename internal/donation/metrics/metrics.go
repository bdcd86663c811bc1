package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "donorlink/pkg/domain-errors"
)

// Metrics provides observability for the donation module.
type Metrics struct {
	DonationsRecorded      *prometheus.CounterVec
	DonationsRejected      *prometheus.CounterVec
	ReceiversCompleted     prometheus.Counter
	RecordDonationDuration prometheus.Histogram
	StatsCacheLookups      *prometheus.CounterVec
	LedgerDrift            *prometheus.GaugeVec
}

// New registers the donation metrics with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DonationsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorlink_donations_recorded_total",
			Help: "Committed donations by kind (assignment or general)",
		}, []string{"kind"}),
		DonationsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorlink_donations_rejected_total",
			Help: "Donations rolled back, by error code",
		}, []string{"code"}),
		ReceiversCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "donorlink_receivers_completed_total",
			Help: "Receivers that reached their required donations",
		}),
		RecordDonationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorlink_record_donation_duration_seconds",
			Help:    "Duration of RecordDonation including the transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		StatsCacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorlink_stats_cache_lookups_total",
			Help: "Donor stats cache lookups by result (hit, miss, bypass, error)",
		}, []string{"result"}),
		LedgerDrift: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "donorlink_ledger_drift_entities",
			Help: "Entities whose cached counter disagrees with the ledger at the last reconciliation",
		}, []string{"kind"}),
	}
}

// IncrementRecorded counts a committed donation. kind is "assignment" or "general".
func (m *Metrics) IncrementRecorded(kind string) {
	m.DonationsRecorded.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementRejected(err error) {
	m.DonationsRejected.WithLabelValues(string(dErrors.CodeOf(err))).Inc()
}

func (m *Metrics) IncrementReceiverCompleted() {
	m.ReceiversCompleted.Inc()
}

// ObserveRecordDonation records the duration of a RecordDonation call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveRecordDonation(start time.Time) {
	m.RecordDonationDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementCacheLookup(result string) {
	m.StatsCacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SetDrift(kind string, count int) {
	m.LedgerDrift.WithLabelValues(kind).Set(float64(count))
}
