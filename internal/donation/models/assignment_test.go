package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
)

func TestAssignmentStatus_Transitions(t *testing.T) {
	assert.True(t, AssignmentStatusPending.CanTransitionTo(AssignmentStatusConfirmed))
	assert.True(t, AssignmentStatusPending.CanTransitionTo(AssignmentStatusCancelled))
	assert.False(t, AssignmentStatusPending.CanTransitionTo(AssignmentStatusCompleted))
	assert.True(t, AssignmentStatusConfirmed.CanTransitionTo(AssignmentStatusCompleted))
	assert.True(t, AssignmentStatusConfirmed.CanTransitionTo(AssignmentStatusCancelled))
	assert.False(t, AssignmentStatusCompleted.CanTransitionTo(AssignmentStatusCancelled))
	assert.False(t, AssignmentStatusCancelled.CanTransitionTo(AssignmentStatusConfirmed))

	assert.True(t, AssignmentStatusCompleted.IsTerminal())
	assert.True(t, AssignmentStatusCancelled.IsTerminal())
	assert.False(t, AssignmentStatusPending.IsTerminal())
}

func TestAssignment_CanComplete(t *testing.T) {
	hospital := id.HospitalID(4)

	t.Run("confirmed at same hospital", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusConfirmed, HospitalID: hospital}
		assert.NoError(t, a.CanComplete(hospital))
	})

	t.Run("pending is rejected", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusPending, HospitalID: hospital}
		err := a.CanComplete(hospital)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStateMismatch))
	})

	t.Run("hospital mismatch is rejected", func(t *testing.T) {
		a := &Assignment{Status: AssignmentStatusConfirmed, HospitalID: hospital}
		err := a.CanComplete(id.HospitalID(5))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStateMismatch))
	})
}

func TestAssignment_ApplyCompletion(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	a := &Assignment{Status: AssignmentStatusConfirmed, Notes: "scheduled"}

	a.ApplyCompletion(now, "")
	assert.Equal(t, AssignmentStatusCompleted, a.Status)
	require.NotNil(t, a.DonationDate)
	assert.Equal(t, now, *a.DonationDate)
	assert.Equal(t, "scheduled", a.Notes)

	b := &Assignment{Status: AssignmentStatusConfirmed}
	b.ApplyCompletion(now, "went well")
	assert.Equal(t, "went well", b.Notes)
}

func TestAssignment_ConfirmAndCancel(t *testing.T) {
	a := &Assignment{Status: AssignmentStatusPending}
	require.NoError(t, a.Confirm())
	assert.Equal(t, AssignmentStatusConfirmed, a.Status)

	err := a.Confirm()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeStateMismatch))

	require.NoError(t, a.Cancel())
	assert.Equal(t, AssignmentStatusCancelled, a.Status)
	assert.Error(t, a.Cancel())
}

func TestNewGeneralDonation(t *testing.T) {
	now := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	a := NewGeneralDonation(id.DonorID(1), id.HospitalID(2), now, DefaultGeneralDonationNotes)

	assert.Equal(t, AssignmentStatusCompleted, a.Status)
	assert.Nil(t, a.ReceiverID)
	assert.Equal(t, now, a.AssignmentDate)
	require.NotNil(t, a.DonationDate)
	assert.Equal(t, now, *a.DonationDate)
}

func TestAssignment_Snapshot(t *testing.T) {
	a := &Assignment{ID: id.AssignmentID(9), Status: AssignmentStatusCompleted, HospitalID: id.HospitalID(2)}
	r := &Receiver{ID: id.ReceiverID(5), RequiredDonations: 2, CurrentDonations: 1, Status: ReceiverStatusActive}

	snap := a.Snapshot(r)
	require.NotNil(t, snap.Receiver)
	assert.Equal(t, 50, snap.Receiver.ProgressPercentage)
	assert.Nil(t, a.Snapshot(nil).Receiver)
}
