package models

import (
	"strings"
	"time"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

const maxNotesLength = 2000

// RecordDonationRequest is one donation event as submitted by a caller.
type RecordDonationRequest struct {
	DonorID      id.DonorID
	HospitalID   id.HospitalID
	AssignmentID *id.AssignmentID
	Notes        string
}

func (r *RecordDonationRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *RecordDonationRequest) Validate() error {
	if r.DonorID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "donor id is required")
	}
	if r.HospitalID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "hospital id is required")
	}
	if r.AssignmentID != nil && *r.AssignmentID <= 0 {
		return dErrors.New(dErrors.CodeValidation, "assignment id must be positive")
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes are too long")
	}
	return nil
}

// DonationResult is everything a committed donation changed.
type DonationResult struct {
	Donor       Eligibility         `json:"donor"`
	LedgerEntry *LedgerEntry        `json:"ledger_entry"`
	Assignment  *AssignmentSnapshot `json:"assignment,omitempty"`
}

// DonorStats summarizes a donor's history from the ledger.
type DonorStats struct {
	DonorID           id.DonorID `json:"donor_id"`
	BloodType         BloodType  `json:"blood_type"`
	TotalDonations    int        `json:"total_donations"`
	DonationsThisYear int        `json:"donations_this_year"`
	LastDonationDate  *time.Time `json:"last_donation_date"`
	CanDonateAfter    *time.Time `json:"can_donate_after"`
	CanDonateNow      bool       `json:"can_donate_now"`
}

// AvailableDonor is a donor eligible to give now.
type AvailableDonor struct {
	DonorID          id.DonorID `json:"donor_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	BloodType        BloodType  `json:"blood_type"`
	LastDonationDate *time.Time `json:"last_donation_date"`
	TotalDonations   int        `json:"total_donations"`
}

// Drift is one cached counter that disagrees with the ledger.
type Drift struct {
	Kind     string `json:"kind"`
	EntityID int64  `json:"entity_id"`
	Cached   int    `json:"cached"`
	Ledger   int    `json:"ledger"`
}

const (
	DriftKindDonor    = "donor"
	DriftKindReceiver = "receiver"
)

// ReconciliationReport lists counter drift found against the ledger.
type ReconciliationReport struct {
	CheckedAt        time.Time `json:"checked_at"`
	DonorsChecked    int       `json:"donors_checked"`
	ReceiversChecked int       `json:"receivers_checked"`
	Drift            []Drift   `json:"drift"`
}

func (r *ReconciliationReport) Consistent() bool {
	return len(r.Drift) == 0
}

// UpdateReceiverRequest lists the receiver fields an administrator may change.
// Counters and status are not editable; they follow from donations.
type UpdateReceiverRequest struct {
	RequiredDonations *int `json:"required_donations,omitempty"`
}

func (r *UpdateReceiverRequest) Validate() error {
	if r.RequiredDonations == nil {
		return dErrors.New(dErrors.CodeValidation, "no updatable fields supplied")
	}
	if *r.RequiredDonations <= 0 {
		return dErrors.New(dErrors.CodeValidation, "required_donations must be positive")
	}
	return nil
}

// CompatibilityResult answers whether a donor type may give to a receiver type.
type CompatibilityResult struct {
	Donor      BloodType `json:"donor"`
	Receiver   BloodType `json:"receiver"`
	Compatible bool      `json:"compatible"`
}

// UrgentWindow is how far ahead a deadline counts as urgent.
const UrgentWindow = 7 * 24 * time.Hour
