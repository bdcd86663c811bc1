package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

func TestNewCompletedEntry(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	receiverID := id.ReceiverID(8)

	entry := NewCompletedEntry(id.DonorID(1), &receiverID, id.HospitalID(2), BloodTypeONeg, now, "")

	assert.Equal(t, BloodTypeONeg, entry.BloodType)
	assert.Equal(t, StandardDonationAmountML, entry.AmountML)
	assert.Equal(t, LedgerStatusCompleted, entry.Status)
	assert.Equal(t, DefaultDonationNotes, entry.Notes)
	assert.Equal(t, now, entry.DonationDate)
	assert.Equal(t, &receiverID, entry.ReceiverID)

	custom := NewCompletedEntry(id.DonorID(1), nil, id.HospitalID(2), BloodTypeAPos, now, "first time")
	assert.Equal(t, "first time", custom.Notes)
	assert.Nil(t, custom.ReceiverID)
}

func TestRecordDonationRequest_Validate(t *testing.T) {
	zero := id.AssignmentID(0)
	tests := []struct {
		name string
		req  RecordDonationRequest
		ok   bool
	}{
		{"valid", RecordDonationRequest{DonorID: 1, HospitalID: 2}, true},
		{"missing donor", RecordDonationRequest{HospitalID: 2}, false},
		{"missing hospital", RecordDonationRequest{DonorID: 1}, false},
		{"zero assignment", RecordDonationRequest{DonorID: 1, HospitalID: 2, AssignmentID: &zero}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestRecordDonationRequest_Normalize(t *testing.T) {
	req := RecordDonationRequest{Notes: "  morning slot \n"}
	req.Normalize()
	assert.Equal(t, "morning slot", req.Notes)
}
