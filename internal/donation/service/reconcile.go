package service

import (
	"context"
	"sort"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/requestcontext"
)

// Reconcile compares every cached counter with the ledger and reports drift.
// All reads share one snapshot so a donation committing mid-run cannot show
// up as drift. It never writes; the coordinator stays the only writer of
// counters.
func (s *Service) Reconcile(ctx context.Context) (*models.ReconciliationReport, error) {
	report := &models.ReconciliationReport{
		CheckedAt: requestcontext.Now(ctx).UTC(),
		Drift:     []models.Drift{},
	}

	var donorDrift, receiverDrift int
	err := s.tx.RunInReadTx(ctx, func(ctx context.Context, stores Stores) error {
		var err error
		donorDrift, err = reconcileDonors(ctx, stores, report)
		if err != nil {
			return err
		}
		receiverDrift, err = reconcileReceivers(ctx, stores, report)
		return err
	})
	if err != nil {
		return nil, translateTxError(err)
	}

	sort.Slice(report.Drift, func(i, j int) bool {
		if report.Drift[i].Kind != report.Drift[j].Kind {
			return report.Drift[i].Kind < report.Drift[j].Kind
		}
		return report.Drift[i].EntityID < report.Drift[j].EntityID
	})

	if s.metrics != nil {
		s.metrics.SetDrift(models.DriftKindDonor, donorDrift)
		s.metrics.SetDrift(models.DriftKindReceiver, receiverDrift)
	}
	if !report.Consistent() {
		s.logger.WarnContext(ctx, "ledger drift detected", "drift_count", len(report.Drift))
	}
	return report, nil
}

func reconcileDonors(ctx context.Context, stores Stores, report *models.ReconciliationReport) (int, error) {
	donorTotals, err := stores.Donors.ListTotals(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load donor totals")
	}
	donorIDs := make([]id.DonorID, 0, len(donorTotals))
	for donorID := range donorTotals {
		donorIDs = append(donorIDs, donorID)
	}
	donorLedger, err := stores.Ledger.CountCompletedByDonors(ctx, donorIDs)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count donor ledger entries")
	}
	drift := 0
	for _, donorID := range donorIDs {
		if cached, ledger := donorTotals[donorID], donorLedger[donorID]; cached != ledger {
			report.Drift = append(report.Drift, models.Drift{
				Kind: models.DriftKindDonor, EntityID: int64(donorID), Cached: cached, Ledger: ledger,
			})
			drift++
		}
	}
	report.DonorsChecked = len(donorIDs)
	return drift, nil
}

func reconcileReceivers(ctx context.Context, stores Stores, report *models.ReconciliationReport) (int, error) {
	receiverCounters, err := stores.Receivers.ListCounters(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load receiver counters")
	}
	receiverIDs := make([]id.ReceiverID, 0, len(receiverCounters))
	for receiverID := range receiverCounters {
		receiverIDs = append(receiverIDs, receiverID)
	}
	receiverLedger, err := stores.Ledger.CountCompletedByReceivers(ctx, receiverIDs)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count receiver ledger entries")
	}
	drift := 0
	for _, receiverID := range receiverIDs {
		if cached, ledger := receiverCounters[receiverID], receiverLedger[receiverID]; cached != ledger {
			report.Drift = append(report.Drift, models.Drift{
				Kind: models.DriftKindReceiver, EntityID: int64(receiverID), Cached: cached, Ledger: ledger,
			})
			drift++
		}
	}
	report.ReceiversChecked = len(receiverIDs)
	return drift, nil
}
