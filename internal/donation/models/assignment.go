package models

import (
	"time"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

type AssignmentStatus string

const (
	AssignmentStatusPending   AssignmentStatus = "pending"
	AssignmentStatusConfirmed AssignmentStatus = "confirmed"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentStatusPending:   {AssignmentStatusConfirmed, AssignmentStatusCancelled},
	AssignmentStatusConfirmed: {AssignmentStatusCompleted, AssignmentStatusCancelled},
}

// CanTransitionTo reports whether the state machine allows s -> next.
// completed and cancelled have no outgoing transitions.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s AssignmentStatus) IsTerminal() bool {
	return len(assignmentTransitions[s]) == 0
}

// Assignment pairs a donor with a receiver at a hospital.
// A nil ReceiverID denotes a general donation with no specific receiver.
//
// Lifecycle: pending -> confirmed -> completed, pending|confirmed -> cancelled.
// Only the donation coordinator completes an assignment.
type Assignment struct {
	ID             id.AssignmentID
	DonorID        id.DonorID
	ReceiverID     *id.ReceiverID
	HospitalID     id.HospitalID
	Status         AssignmentStatus
	AssignmentDate time.Time
	DonationDate   *time.Time
	Notes          string
}

// NewGeneralDonation builds the standing record of an unattributed donation.
// It is born completed; there is nothing to confirm.
func NewGeneralDonation(donorID id.DonorID, hospitalID id.HospitalID, now time.Time, notes string) *Assignment {
	donatedAt := now
	return &Assignment{
		DonorID:        donorID,
		HospitalID:     hospitalID,
		Status:         AssignmentStatusCompleted,
		AssignmentDate: now,
		DonationDate:   &donatedAt,
		Notes:          notes,
	}
}

// CanComplete checks that a donation at hospitalID may complete this assignment.
func (a *Assignment) CanComplete(hospitalID id.HospitalID) error {
	if a.Status != AssignmentStatusConfirmed {
		return dErrors.New(dErrors.CodeStateMismatch, "assignment is not confirmed")
	}
	if a.HospitalID != hospitalID {
		return dErrors.New(dErrors.CodeStateMismatch, "hospital does not match the assignment")
	}
	return nil
}

// ApplyCompletion marks the assignment completed by a donation at now.
// Call CanComplete first.
func (a *Assignment) ApplyCompletion(now time.Time, notes string) {
	donatedAt := now
	a.Status = AssignmentStatusCompleted
	a.DonationDate = &donatedAt
	if notes != "" {
		a.Notes = notes
	}
}

// Confirm moves a pending assignment to confirmed.
func (a *Assignment) Confirm() error {
	return a.transition(AssignmentStatusConfirmed)
}

// Cancel withdraws a pending or confirmed assignment.
func (a *Assignment) Cancel() error {
	return a.transition(AssignmentStatusCancelled)
}

func (a *Assignment) transition(next AssignmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeStateMismatch, "assignment cannot move from "+string(a.Status)+" to "+string(next))
	}
	a.Status = next
	return nil
}

// AssignmentSnapshot is the assignment view returned after a donation.
type AssignmentSnapshot struct {
	ID           id.AssignmentID  `json:"id"`
	Status       AssignmentStatus `json:"status"`
	HospitalID   id.HospitalID    `json:"hospital_id"`
	DonationDate *time.Time       `json:"donation_date,omitempty"`
	Receiver     *Progress        `json:"receiver,omitempty"`
}

func (a *Assignment) Snapshot(receiver *Receiver) *AssignmentSnapshot {
	snap := &AssignmentSnapshot{
		ID:           a.ID,
		Status:       a.Status,
		HospitalID:   a.HospitalID,
		DonationDate: a.DonationDate,
	}
	if receiver != nil {
		progress := receiver.Progress()
		snap.Receiver = &progress
	}
	return snap
}
