package service

import (
	"context"
	"sort"
	"time"

	"donorlink/internal/audit"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/requestcontext"
)

type receiverChangedPayload struct {
	ReceiverID        id.ReceiverID         `json:"receiver_id"`
	RequiredDonations int                   `json:"required_donations"`
	CurrentDonations  int                   `json:"current_donations"`
	Status            models.ReceiverStatus `json:"status"`
	RequestID         string                `json:"request_id,omitempty"`
}

// ReceiverProgress returns the receiver's counters and completion percentage.
func (s *Service) ReceiverProgress(ctx context.Context, receiverID id.ReceiverID) (*models.Progress, error) {
	receiver, err := s.stores.Receivers.FindByID(ctx, receiverID)
	if err != nil {
		return nil, translateStoreError(err, "receiver not found", "failed to load receiver")
	}
	progress := receiver.Progress()
	return &progress, nil
}

// ReceiverDonations returns the ledger entries attributed to the receiver, newest first.
func (s *Service) ReceiverDonations(ctx context.Context, receiverID id.ReceiverID) ([]*models.LedgerEntry, error) {
	if _, err := s.stores.Receivers.FindByID(ctx, receiverID); err != nil {
		return nil, translateStoreError(err, "receiver not found", "failed to load receiver")
	}
	entries, err := s.stores.Ledger.ListByReceiver(ctx, receiverID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load receiver donations")
	}
	sortNewestFirst(entries)
	return entries, nil
}

// UrgentReceivers lists active receivers whose deadline falls within
// models.UrgentWindow, soonest first. Overdue receivers are included.
func (s *Service) UrgentReceivers(ctx context.Context) ([]models.Progress, error) {
	now := requestcontext.Now(ctx).UTC()
	receivers, err := s.stores.Receivers.ListActiveDueBefore(ctx, now.Add(models.UrgentWindow))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list urgent receivers")
	}
	sort.SliceStable(receivers, func(i, j int) bool {
		return receivers[i].Deadline.Before(receivers[j].Deadline)
	})
	out := make([]models.Progress, 0, len(receivers))
	for _, r := range receivers {
		out = append(out, r.Progress())
	}
	return out, nil
}

// UpdateReceiver applies an administrative change to the receiver's requirement.
func (s *Service) UpdateReceiver(ctx context.Context, receiverID id.ReceiverID, req *models.UpdateReceiverRequest) (*models.Progress, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.mutateReceiver(ctx, receiverID, audit.EventReceiverUpdated, func(r *models.Receiver) error {
		if err := r.SetRequiredDonations(*req.RequiredDonations); err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil
	})
}

// CancelReceiver withdraws an active receiver.
func (s *Service) CancelReceiver(ctx context.Context, receiverID id.ReceiverID) (*models.Progress, error) {
	return s.mutateReceiver(ctx, receiverID, audit.EventReceiverCancelled, func(r *models.Receiver) error {
		if err := r.CanCancel(); err != nil {
			return err
		}
		r.ApplyCancel()
		return nil
	})
}

func (s *Service) mutateReceiver(ctx context.Context, receiverID id.ReceiverID, event audit.EventType, apply func(r *models.Receiver) error) (*models.Progress, error) {
	now := requestcontext.Now(ctx).UTC()
	var progress models.Progress
	err := s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		receiver, err := stores.Receivers.FindByIDForUpdate(ctx, receiverID)
		if err != nil {
			return translateStoreError(err, "receiver not found", "failed to load receiver")
		}
		if err := apply(receiver); err != nil {
			return err
		}
		if err := stores.Receivers.Update(ctx, receiver); err != nil {
			return translateStoreError(err, "receiver not found", "failed to update receiver")
		}
		if err := s.appendEvent(ctx, stores, event, audit.AggregateReceiver, receiverID.String(), receiverChangedPayload{
			ReceiverID:        receiver.ID,
			RequiredDonations: receiver.RequiredDonations,
			CurrentDonations:  receiver.CurrentDonations,
			Status:            receiver.Status,
			RequestID:         requestcontext.RequestID(ctx),
		}, now); err != nil {
			return err
		}
		progress = receiver.Progress()
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}
	s.logAudit(ctx, string(event), "receiver_id", receiverID.String(), "status", string(progress.Status))
	return &progress, nil
}

func (s *Service) appendEvent(ctx context.Context, stores Stores, event audit.EventType, aggregateType, aggregateID string, payload any, now time.Time) error {
	entry, err := audit.NewOutboxEntry(event, aggregateType, aggregateID, payload, now)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build "+string(event)+" event")
	}
	if err := stores.Outbox.Append(ctx, entry); err != nil {
		return translateStoreError(err, "outbox entry not found", "failed to write "+string(event)+" event")
	}
	return nil
}
