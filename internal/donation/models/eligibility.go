package models

import (
	"time"

	dErrors "donorlink/pkg/domain-errors"
)

// Gender as recorded on the person; it selects the eligibility window.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Waiting periods between consecutive donations, in calendar months.
const (
	MaleWaitingMonths   = 3
	FemaleWaitingMonths = 4
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// WaitingMonths returns the eligibility window for g.
func (g Gender) WaitingMonths() (int, error) {
	switch g {
	case GenderMale:
		return MaleWaitingMonths, nil
	case GenderFemale:
		return FemaleWaitingMonths, nil
	default:
		return 0, dErrors.New(dErrors.CodeInvariantViolation, "unsupported gender for eligibility: "+string(g))
	}
}

// NextEligibleDate adds the gender-dependent waiting period to from.
// Month arithmetic normalizes overflow (Nov 30 + 3 months = Mar 2 in a
// non-leap year), so the result is never earlier than the nominal date.
func NextEligibleDate(gender Gender, from time.Time) (time.Time, error) {
	months, err := gender.WaitingMonths()
	if err != nil {
		return time.Time{}, err
	}
	return from.AddDate(0, months, 0), nil
}

// IsEligibleNow reports whether a donor gated by canDonateAfter may donate at now.
// A donor who has never donated (nil gate) is always eligible.
func IsEligibleNow(canDonateAfter *time.Time, now time.Time) bool {
	if canDonateAfter == nil {
		return true
	}
	return !now.Before(*canDonateAfter)
}
