package models

import (
	"time"

	id "donorlink/pkg/domain"
)

// StandardDonationAmountML is the volume of one whole-blood donation.
const StandardDonationAmountML = 450

type LedgerStatus string

const (
	LedgerStatusCompleted LedgerStatus = "completed"
	LedgerStatusCancelled LedgerStatus = "cancelled"
	LedgerStatusPending   LedgerStatus = "pending"
)

// Default notes when the caller supplies none.
const (
	DefaultDonationNotes        = "Donation recorded"
	DefaultGeneralDonationNotes = "General donation recorded"
)

// LedgerEntry is an immutable record of one donation and the source of truth
// for donation counts. Donor.TotalDonations and Receiver.CurrentDonations are
// cached aggregates of completed entries.
//
// There is no update path: stores only append and read.
type LedgerEntry struct {
	ID           id.LedgerEntryID `json:"id"`
	DonorID      id.DonorID       `json:"donor_id"`
	ReceiverID   *id.ReceiverID   `json:"receiver_id,omitempty"`
	HospitalID   id.HospitalID    `json:"hospital_id"`
	DonationDate time.Time        `json:"donation_date"`
	BloodType    BloodType        `json:"blood_type"`
	AmountML     int              `json:"amount_ml"`
	Status       LedgerStatus     `json:"status"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewCompletedEntry captures a donation. bloodType is the donor's type at the
// moment of donation and is never re-derived later.
func NewCompletedEntry(donorID id.DonorID, receiverID *id.ReceiverID, hospitalID id.HospitalID, bloodType BloodType, now time.Time, notes string) *LedgerEntry {
	if notes == "" {
		notes = DefaultDonationNotes
	}
	return &LedgerEntry{
		DonorID:      donorID,
		ReceiverID:   receiverID,
		HospitalID:   hospitalID,
		DonationDate: now,
		BloodType:    bloodType,
		AmountML:     StandardDonationAmountML,
		Status:       LedgerStatusCompleted,
		Notes:        notes,
		CreatedAt:    now,
	}
}
