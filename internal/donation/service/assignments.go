package service

import (
	"context"

	"donorlink/internal/audit"
	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	"donorlink/pkg/requestcontext"
)

type assignmentChangedPayload struct {
	AssignmentID id.AssignmentID         `json:"assignment_id"`
	DonorID      id.DonorID              `json:"donor_id"`
	ReceiverID   *id.ReceiverID          `json:"receiver_id,omitempty"`
	HospitalID   id.HospitalID           `json:"hospital_id"`
	Status       models.AssignmentStatus `json:"status"`
	RequestID    string                  `json:"request_id,omitempty"`
}

// ConfirmAssignment moves a pending assignment to confirmed so a donation can
// complete it.
func (s *Service) ConfirmAssignment(ctx context.Context, assignmentID id.AssignmentID) (*models.AssignmentSnapshot, error) {
	return s.transitionAssignment(ctx, assignmentID, audit.EventAssignmentConfirmed, (*models.Assignment).Confirm)
}

// CancelAssignment withdraws a pending or confirmed assignment.
func (s *Service) CancelAssignment(ctx context.Context, assignmentID id.AssignmentID) (*models.AssignmentSnapshot, error) {
	return s.transitionAssignment(ctx, assignmentID, audit.EventAssignmentCancelled, (*models.Assignment).Cancel)
}

func (s *Service) transitionAssignment(ctx context.Context, assignmentID id.AssignmentID, event audit.EventType, apply func(*models.Assignment) error) (*models.AssignmentSnapshot, error) {
	now := requestcontext.Now(ctx).UTC()
	var snapshot *models.AssignmentSnapshot
	err := s.tx.RunInTx(ctx, func(ctx context.Context, stores Stores) error {
		assignment, err := stores.Assignments.FindByIDForUpdate(ctx, assignmentID)
		if err != nil {
			return translateStoreError(err, "assignment not found", "failed to load assignment")
		}
		if err := apply(assignment); err != nil {
			return err
		}
		if err := stores.Assignments.Update(ctx, assignment); err != nil {
			return translateStoreError(err, "assignment not found", "failed to update assignment")
		}
		if err := s.appendEvent(ctx, stores, event, audit.AggregateAssignment, assignmentID.String(), assignmentChangedPayload{
			AssignmentID: assignment.ID,
			DonorID:      assignment.DonorID,
			ReceiverID:   assignment.ReceiverID,
			HospitalID:   assignment.HospitalID,
			Status:       assignment.Status,
			RequestID:    requestcontext.RequestID(ctx),
		}, now); err != nil {
			return err
		}
		snapshot = assignment.Snapshot(nil)
		return nil
	})
	if err != nil {
		return nil, translateTxError(err)
	}
	s.logAudit(ctx, string(event), "assignment_id", assignmentID.String(), "status", string(snapshot.Status))
	return snapshot, nil
}
