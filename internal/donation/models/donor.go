package models

import (
	"time"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

// Donor tracks a person's donation eligibility.
//
// Invariants:
//   - TotalDonations grows by exactly one per completed donation
//   - CanDonateAfter is always derived from LastDonationDate and the person's
//     gender; there is no setter for it
//   - Mutated only by the donation coordinator (ApplyDonation)
type Donor struct {
	ID               id.DonorID
	UserID           id.UserID
	LastDonationDate *time.Time
	CanDonateAfter   *time.Time
	TotalDonations   int
	IsPublic         bool
	CreatedAt        time.Time
}

// DonorProfile joins a donor with the person attributes the engine consumes.
type DonorProfile struct {
	Donor     *Donor
	FirstName string
	LastName  string
	BloodType BloodType
	Gender    Gender
}

// CanDonate reports whether the donor's eligibility gate has passed at now.
func (d *Donor) CanDonate(now time.Time) bool {
	return IsEligibleNow(d.CanDonateAfter, now)
}

// EnsureEligible returns a NotEligibleError when the waiting period has not elapsed.
func (d *Donor) EnsureEligible(now time.Time) error {
	if d.CanDonate(now) {
		return nil
	}
	return &NotEligibleError{DonorID: d.ID, CanDonateAfter: *d.CanDonateAfter}
}

// ApplyDonation records a donation at now: the last donation date moves to now,
// the eligibility gate is recomputed for gender and the counter increments.
func (d *Donor) ApplyDonation(gender Gender, now time.Time) error {
	if d.TotalDonations < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "donor total donations cannot be negative")
	}
	next, err := NextEligibleDate(gender, now)
	if err != nil {
		return err
	}
	donatedAt := now
	d.LastDonationDate = &donatedAt
	d.CanDonateAfter = &next
	d.TotalDonations++
	return nil
}

// Eligibility is the snapshot returned to callers after a donation or on lookup.
type Eligibility struct {
	DonorID          id.DonorID `json:"donor_id"`
	LastDonationDate *time.Time `json:"last_donation_date"`
	CanDonateAfter   *time.Time `json:"can_donate_after"`
	TotalDonations   int        `json:"total_donations"`
	CanDonateNow     bool       `json:"can_donate_now"`
}

func (d *Donor) Eligibility(now time.Time) Eligibility {
	return Eligibility{
		DonorID:          d.ID,
		LastDonationDate: d.LastDonationDate,
		CanDonateAfter:   d.CanDonateAfter,
		TotalDonations:   d.TotalDonations,
		CanDonateNow:     d.CanDonate(now),
	}
}

// Person holds the identity attributes of a user that donation rules read.
// Registration and profile edits happen outside this module.
type Person struct {
	ID        id.UserID
	FirstName string
	LastName  string
	BloodType BloodType
	Gender    Gender
	IsActive  bool
}
