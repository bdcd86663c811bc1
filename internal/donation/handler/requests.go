package handler

import (
	"time"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	"donorlink/pkg/platform/httputil"
)

// RecordDonationRequest is the body of POST /donors/{donorID}/donations.
type RecordDonationRequest struct {
	HospitalID   int64  `json:"hospital_id"`
	AssignmentID *int64 `json:"assignment_id,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

func (r *RecordDonationRequest) ToDomain(donorID id.DonorID) *models.RecordDonationRequest {
	req := &models.RecordDonationRequest{
		DonorID:    donorID,
		HospitalID: id.HospitalID(r.HospitalID),
		Notes:      r.Notes,
	}
	if r.AssignmentID != nil {
		assignmentID := id.AssignmentID(*r.AssignmentID)
		req.AssignmentID = &assignmentID
	}
	return req
}

// UpdateReceiverRequest is the body of PATCH /receivers/{receiverID}. Only the
// listed fields are editable.
type UpdateReceiverRequest struct {
	RequiredDonations *int `json:"required_donations"`
}

func (r *UpdateReceiverRequest) ToDomain() *models.UpdateReceiverRequest {
	return &models.UpdateReceiverRequest{RequiredDonations: r.RequiredDonations}
}

// NotEligibleResponse adds the donor's next eligible time to the error body.
type NotEligibleResponse struct {
	httputil.ErrorResponse
	CanDonateAfter time.Time `json:"can_donate_after"`
}
