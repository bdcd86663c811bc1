package models

import (
	"math"
	"time"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

type ReceiverStatus string

const (
	ReceiverStatusActive    ReceiverStatus = "active"
	ReceiverStatusCompleted ReceiverStatus = "completed"
	ReceiverStatusCancelled ReceiverStatus = "cancelled"
)

// Receiver is a patient collecting a required number of donations.
//
// Invariants:
//   - RequiredDonations is positive
//   - Status becomes completed exactly when CurrentDonations >= RequiredDonations
//   - completed never regresses to active; cancelled is terminal
//   - CurrentDonations is never clamped; over-donation is accepted
type Receiver struct {
	ID                id.ReceiverID
	UserID            id.UserID
	HospitalID        id.HospitalID
	BloodType         BloodType
	Diagnosis         string
	RequiredDonations int
	CurrentDonations  int
	Deadline          time.Time
	Status            ReceiverStatus
	CreatedAt         time.Time
}

func (r *Receiver) IsActive() bool {
	return r.Status == ReceiverStatusActive
}

// RecordDonation counts one completed donation attributed to the receiver and
// re-derives status. A cancelled receiver still counts the donation (the blood
// was drawn) but stays cancelled.
func (r *Receiver) RecordDonation() {
	r.CurrentDonations++
	r.deriveStatus()
}

// SetRequiredDonations applies an administrative change to the requirement.
func (r *Receiver) SetRequiredDonations(required int) error {
	if required <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "required donations must be positive")
	}
	r.RequiredDonations = required
	r.deriveStatus()
	return nil
}

// CanCancel checks that the receiver is still collecting donations.
func (r *Receiver) CanCancel() error {
	if r.Status != ReceiverStatusActive {
		return dErrors.New(dErrors.CodeStateMismatch, "only active receivers can be cancelled")
	}
	return nil
}

// ApplyCancel marks the receiver cancelled. Call CanCancel first.
func (r *Receiver) ApplyCancel() {
	r.Status = ReceiverStatusCancelled
}

func (r *Receiver) deriveStatus() {
	if r.Status == ReceiverStatusActive && r.CurrentDonations >= r.RequiredDonations {
		r.Status = ReceiverStatusCompleted
	}
}

// ProgressPercentage is round(current/required*100) clamped to [0, 100] for display.
func (r *Receiver) ProgressPercentage() int {
	if r.RequiredDonations <= 0 {
		return 0
	}
	pct := int(math.Round(float64(r.CurrentDonations) / float64(r.RequiredDonations) * 100))
	return min(max(pct, 0), 100)
}

// Progress is the receiver snapshot returned by the progress tracker.
type Progress struct {
	ReceiverID         id.ReceiverID  `json:"id"`
	HospitalID         id.HospitalID  `json:"hospital_id"`
	BloodType          BloodType      `json:"blood_type,omitempty"`
	RequiredDonations  int            `json:"required_donations"`
	CurrentDonations   int            `json:"current_donations"`
	ProgressPercentage int            `json:"progress_percentage"`
	Status             ReceiverStatus `json:"status"`
	Deadline           time.Time      `json:"deadline"`
}

func (r *Receiver) Progress() Progress {
	return Progress{
		ReceiverID:         r.ID,
		HospitalID:         r.HospitalID,
		BloodType:          r.BloodType,
		RequiredDonations:  r.RequiredDonations,
		CurrentDonations:   r.CurrentDonations,
		ProgressPercentage: r.ProgressPercentage(),
		Status:             r.Status,
		Deadline:           r.Deadline,
	}
}
