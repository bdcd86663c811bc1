package models

import (
	"fmt"
	"time"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

// NotEligibleError reports a donation attempted before the waiting period elapsed.
// It unwraps to a CodeNotEligible domain error so dErrors.HasCode matches it,
// while handlers can still read CanDonateAfter with errors.As.
type NotEligibleError struct {
	DonorID        id.DonorID
	CanDonateAfter time.Time
}

func (e *NotEligibleError) Error() string {
	return fmt.Sprintf("donor %s cannot donate before %s", e.DonorID, e.CanDonateAfter.Format(time.RFC3339))
}

func (e *NotEligibleError) Unwrap() error {
	return dErrors.New(dErrors.CodeNotEligible, "donor cannot donate at this time")
}
