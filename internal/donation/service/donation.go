package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"donorlink/internal/audit"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/sentinel"
	"donorlink/pkg/requestcontext"
)

// storePrecision is the coarsest timestamp resolution among the stores.
// Donation times are truncated to it so the returned snapshot matches what a
// later read returns.
const storePrecision = time.Millisecond

const (
	donationKindAssignment = "assignment"
	donationKindGeneral    = "general"
)

// donationRecordedPayload is the outbox body for a committed donation.
type donationRecordedPayload struct {
	LedgerEntryID  id.LedgerEntryID `json:"ledger_entry_id"`
	DonorID        id.DonorID       `json:"donor_id"`
	HospitalID     id.HospitalID    `json:"hospital_id"`
	AssignmentID   id.AssignmentID  `json:"assignment_id"`
	ReceiverID     *id.ReceiverID   `json:"receiver_id,omitempty"`
	BloodType      models.BloodType `json:"blood_type"`
	AmountML       int              `json:"amount_ml"`
	DonationDate   time.Time        `json:"donation_date"`
	CanDonateAfter *time.Time       `json:"can_donate_after"`
	TotalDonations int              `json:"total_donations"`
	RequestID      string           `json:"request_id,omitempty"`
}

// RecordDonation applies one donation event atomically: the donor's
// eligibility and counter, a ledger entry, the assignment (or a new general
// assignment) and the receiver's progress all commit together or not at all.
func (s *Service) RecordDonation(ctx context.Context, req *models.RecordDonationRequest) (*models.DonationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "donation.RecordDonation", trace.WithAttributes(
		attribute.Int64("donor.id", int64(req.DonorID)),
		attribute.Int64("hospital.id", int64(req.HospitalID)),
	))
	defer span.End()
	defer s.observeRecordDonation(start)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, s.rejectDonation(ctx, span, err)
	}

	now := requestcontext.Now(ctx).UTC().Truncate(storePrecision)
	var (
		result            *models.DonationResult
		receiverCompleted bool
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		var err error
		result, receiverCompleted, err = s.recordDonation(ctx, stores, req, now)
		return err
	})
	if err != nil {
		return nil, s.rejectDonation(ctx, span, translateTxError(err))
	}

	s.invalidateStats(ctx, req.DonorID, result.Donor.TotalDonations-1)

	kind := donationKindGeneral
	if req.AssignmentID != nil {
		kind = donationKindAssignment
	}
	s.incrementRecorded(kind, receiverCompleted)
	span.SetAttributes(attribute.Int64("ledger_entry.id", int64(result.LedgerEntry.ID)))
	s.logAudit(ctx, string(audit.EventDonationRecorded),
		"donor_id", req.DonorID.String(),
		"hospital_id", req.HospitalID.String(),
		"ledger_entry_id", result.LedgerEntry.ID.String(),
		"kind", kind,
	)
	return result, nil
}

func (s *Service) recordDonation(ctx context.Context, stores Stores, req *models.RecordDonationRequest, now time.Time) (*models.DonationResult, bool, error) {
	profile, err := stores.Donors.FindProfileForUpdate(ctx, req.DonorID)
	if err != nil {
		return nil, false, translateStoreError(err, "donor not found", "failed to load donor")
	}
	donor := profile.Donor

	if err := donor.EnsureEligible(now); err != nil {
		return nil, false, err
	}

	var (
		assignment *models.Assignment
		receiver   *models.Receiver
	)
	if req.AssignmentID != nil {
		assignment, err = stores.Assignments.FindByIDForUpdate(ctx, *req.AssignmentID)
		if err != nil {
			return nil, false, translateStoreError(err, "assignment not found", "failed to load assignment")
		}
		if assignment.DonorID != donor.ID {
			return nil, false, dErrors.New(dErrors.CodeNotFound, "assignment not found")
		}
		if err := assignment.CanComplete(req.HospitalID); err != nil {
			return nil, false, err
		}
		if assignment.ReceiverID != nil {
			receiver, err = stores.Receivers.FindByIDForUpdate(ctx, *assignment.ReceiverID)
			if err != nil {
				return nil, false, translateStoreError(err, "receiver not found", "failed to load receiver")
			}
			if s.enforceCompatibility && !models.IsCompatible(profile.BloodType, receiver.BloodType) {
				return nil, false, dErrors.New(dErrors.CodeStateMismatch,
					"donor blood type "+string(profile.BloodType)+" cannot donate to "+string(receiver.BloodType))
			}
		}
	}

	if err := donor.ApplyDonation(profile.Gender, now); err != nil {
		return nil, false, err
	}
	if err := stores.Donors.Update(ctx, donor); err != nil {
		return nil, false, translateStoreError(err, "donor not found", "failed to update donor")
	}

	var receiverID *id.ReceiverID
	if assignment != nil {
		receiverID = assignment.ReceiverID
	}
	entry := models.NewCompletedEntry(donor.ID, receiverID, req.HospitalID, profile.BloodType, now, req.Notes)
	if err := stores.Ledger.Append(ctx, entry); err != nil {
		return nil, false, translateStoreError(err, "ledger entry not found", "failed to append ledger entry")
	}

	receiverCompleted := false
	if assignment != nil {
		assignment.ApplyCompletion(now, req.Notes)
		if err := stores.Assignments.Update(ctx, assignment); err != nil {
			return nil, false, translateStoreError(err, "assignment not found", "failed to update assignment")
		}
		if receiver != nil {
			wasActive := receiver.IsActive()
			receiver.RecordDonation()
			receiverCompleted = wasActive && receiver.Status == models.ReceiverStatusCompleted
			if err := stores.Receivers.Update(ctx, receiver); err != nil {
				return nil, false, translateStoreError(err, "receiver not found", "failed to update receiver")
			}
		}
	} else {
		notes := req.Notes
		if notes == "" {
			notes = models.DefaultGeneralDonationNotes
		}
		assignment = models.NewGeneralDonation(donor.ID, req.HospitalID, now, notes)
		if err := stores.Assignments.Create(ctx, assignment); err != nil {
			return nil, false, translateStoreError(err, "assignment not found", "failed to create general assignment")
		}
	}

	outbox, err := audit.NewOutboxEntry(audit.EventDonationRecorded, audit.AggregateDonor, donor.ID.String(),
		donationRecordedPayload{
			LedgerEntryID:  entry.ID,
			DonorID:        donor.ID,
			HospitalID:     req.HospitalID,
			AssignmentID:   assignment.ID,
			ReceiverID:     receiverID,
			BloodType:      entry.BloodType,
			AmountML:       entry.AmountML,
			DonationDate:   entry.DonationDate,
			CanDonateAfter: donor.CanDonateAfter,
			TotalDonations: donor.TotalDonations,
			RequestID:      requestcontext.RequestID(ctx),
		}, now)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build donation event")
	}
	if err := stores.Outbox.Append(ctx, outbox); err != nil {
		return nil, false, translateStoreError(err, "outbox entry not found", "failed to write donation event")
	}

	return &models.DonationResult{
		Donor:       donor.Eligibility(now),
		LedgerEntry: entry,
		Assignment:  assignment.Snapshot(receiver),
	}, receiverCompleted, nil
}

func (s *Service) rejectDonation(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	if s.metrics != nil {
		s.metrics.IncrementRejected(err)
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		s.logger.ErrorContext(ctx, "record donation failed", "error", err)
	}
	return err
}

// translateStoreError maps store sentinels onto domain errors. Errors that
// already carry a domain code pass through.
func translateStoreError(err error, notFoundMsg, internalMsg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "resource is busy, retry the request")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.Wrap(err, dErrors.CodeStateMismatch, "entity is not in the expected state")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}

// translateTxError classifies failures raised by the transaction boundary
// itself (begin, commit, deadline) rather than by the callback.
func translateTxError(err error) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction timed out, retry the request")
	case errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit donation")
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}

func (s *Service) observeRecordDonation(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRecordDonation(start)
	}
}

func (s *Service) incrementRecorded(kind string, receiverCompleted bool) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementRecorded(kind)
	if receiverCompleted {
		s.metrics.IncrementReceiverCompleted()
	}
}

// invalidateStats drops the entry cached before the donation committed.
func (s *Service) invalidateStats(ctx context.Context, donorID id.DonorID, previousTotal int) {
	if s.statsCache == nil {
		return
	}
	if err := s.statsCache.Invalidate(ctx, donorID, previousTotal); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate donor stats cache", "donor_id", donorID.String(), "error", err)
	}
}
