package service_test

import (
	"context"
	"errors"
	"time"

	"go.uber.org/mock/gomock"

	"donorlink/internal/audit"
	"donorlink/internal/donation/models"
	"donorlink/internal/donation/service"
	id "donorlink/pkg/domain"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/sentinel"
)

func (s *DonationServiceSuite) TestDonationHistory() {
	s.Run("newest first", func() {
		older := &models.LedgerEntry{ID: 1, DonationDate: s.now.AddDate(0, -6, 0), Status: models.LedgerStatusCompleted}
		newer := &models.LedgerEntry{ID: 2, DonationDate: s.now.AddDate(0, -1, 0), Status: models.LedgerStatusCompleted}
		s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(1)).Return(s.profile(1, models.GenderMale, nil), nil)
		s.ledger.EXPECT().ListByDonor(gomock.Any(), id.DonorID(1)).Return([]*models.LedgerEntry{older, newer}, nil)

		entries, err := s.service.DonationHistory(s.ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(entries, 2)
		s.Equal(id.LedgerEntryID(2), entries[0].ID)
	})

	s.Run("unknown donor", func() {
		s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(4)).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.DonationHistory(s.ctx, 4)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *DonationServiceSuite) TestDonorStats() {
	s.Run("cache miss computes from the ledger and stores under the donor total", func() {
		last := s.now.AddDate(0, -4, 0)
		gate := last.AddDate(0, 3, 0)
		profile := s.profile(1, models.GenderMale, &gate)
		profile.Donor.LastDonationDate = &last
		profile.Donor.TotalDonations = 2
		s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(1)).Return(profile, nil)
		s.cache.EXPECT().Get(gomock.Any(), id.DonorID(1), 2).Return(nil, sentinel.ErrNotFound)
		s.ledger.EXPECT().ListByDonor(gomock.Any(), id.DonorID(1)).Return([]*models.LedgerEntry{
			{ID: 1, DonationDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), Status: models.LedgerStatusCompleted},
			{ID: 2, DonationDate: last, Status: models.LedgerStatusCompleted},
			{ID: 3, DonationDate: last, Status: models.LedgerStatusCancelled},
		}, nil)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any(), 2).Return(nil)

		stats, err := s.service.DonorStats(s.ctx, 1)
		s.Require().NoError(err)
		s.Equal(2, stats.TotalDonations)
		s.Equal(1, stats.DonationsThisYear)
		s.True(stats.CanDonateNow)
		s.Equal(models.BloodTypeONeg, stats.BloodType)
	})

	s.Run("cache hit re-evaluates eligibility at request time", func() {
		gate := s.now.Add(time.Hour)
		profile := s.profile(2, models.GenderMale, &gate)
		profile.Donor.TotalDonations = 5
		s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(2)).Return(profile, nil)
		s.cache.EXPECT().Get(gomock.Any(), id.DonorID(2), 5).Return(&models.DonorStats{
			DonorID: 2, TotalDonations: 5, CanDonateAfter: &gate, CanDonateNow: true,
		}, nil)

		stats, err := s.service.DonorStats(s.ctx, 2)
		s.Require().NoError(err)
		s.Equal(5, stats.TotalDonations)
		s.False(stats.CanDonateNow)
	})

	s.Run("cache errors fall back to the store", func() {
		s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(3)).Return(s.profile(3, models.GenderFemale, nil), nil)
		s.cache.EXPECT().Get(gomock.Any(), id.DonorID(3), 1).Return(nil, errors.New("connection refused"))
		s.ledger.EXPECT().ListByDonor(gomock.Any(), id.DonorID(3)).Return(nil, nil)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any(), 1).Return(errors.New("connection refused"))

		stats, err := s.service.DonorStats(s.ctx, 3)
		s.Require().NoError(err)
		s.Equal(0, stats.TotalDonations)
	})

	s.Run("unknown donor skips the cache", func() {
		s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(9)).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.DonorStats(s.ctx, 9)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}

func (s *DonationServiceSuite) TestDonorEligibility() {
	gate := s.now.AddDate(0, 1, 0)
	s.donors.EXPECT().FindProfile(gomock.Any(), id.DonorID(1)).Return(s.profile(1, models.GenderMale, &gate), nil)

	eligibility, err := s.service.DonorEligibility(s.ctx, 1)
	s.Require().NoError(err)
	s.False(eligibility.CanDonateNow)
	s.Equal(&gate, eligibility.CanDonateAfter)
}

func (s *DonationServiceSuite) TestAvailableDonors() {
	s.Run("restricts to types that can give to the receiver", func() {
		s.donors.EXPECT().ListAvailable(gomock.Any(), gomock.Any(), s.now).DoAndReturn(
			func(_ context.Context, types []models.BloodType, _ time.Time) ([]*models.AvailableDonor, error) {
				s.ElementsMatch([]models.BloodType{models.BloodTypeONeg}, types)
				return []*models.AvailableDonor{{DonorID: 1, BloodType: models.BloodTypeONeg}}, nil
			})

		donors, err := s.service.AvailableDonors(s.ctx, "o-")
		s.Require().NoError(err)
		s.Len(donors, 1)
	})

	s.Run("no filter lists every type", func() {
		s.donors.EXPECT().ListAvailable(gomock.Any(), gomock.Nil(), s.now).Return(nil, nil)

		_, err := s.service.AvailableDonors(s.ctx, "")
		s.NoError(err)
	})

	s.Run("invalid type", func() {
		_, err := s.service.AvailableDonors(s.ctx, "Q+")
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func (s *DonationServiceSuite) TestCheckCompatibility() {
	result, err := s.service.CheckCompatibility("O-", "ab+")
	s.Require().NoError(err)
	s.True(result.Compatible)
	s.Equal(models.BloodTypeABPos, result.Receiver)

	result, err = s.service.CheckCompatibility("A+", "B+")
	s.Require().NoError(err)
	s.False(result.Compatible)

	_, err = s.service.CheckCompatibility("A", "B+")
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
}

// =============================================================================
// Receivers
// =============================================================================

func (s *DonationServiceSuite) TestReceiverProgress() {
	s.receivers.EXPECT().FindByID(gomock.Any(), id.ReceiverID(8)).Return(&models.Receiver{
		ID: 8, RequiredDonations: 3, CurrentDonations: 2, Status: models.ReceiverStatusActive,
	}, nil)

	progress, err := s.service.ReceiverProgress(s.ctx, 8)
	s.Require().NoError(err)
	s.Equal(67, progress.ProgressPercentage)
}

func (s *DonationServiceSuite) TestUrgentReceivers() {
	soon := &models.Receiver{ID: 1, Deadline: s.now.Add(48 * time.Hour), RequiredDonations: 2, Status: models.ReceiverStatusActive}
	sooner := &models.Receiver{ID: 2, Deadline: s.now.Add(2 * time.Hour), RequiredDonations: 2, Status: models.ReceiverStatusActive}
	s.receivers.EXPECT().ListActiveDueBefore(gomock.Any(), s.now.Add(models.UrgentWindow)).
		Return([]*models.Receiver{soon, sooner}, nil)

	urgent, err := s.service.UrgentReceivers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(urgent, 2)
	s.Equal(id.ReceiverID(2), urgent[0].ReceiverID)
}

func (s *DonationServiceSuite) TestUpdateReceiver() {
	s.Run("lowering the requirement completes the receiver", func() {
		receiver := &models.Receiver{ID: 8, RequiredDonations: 4, CurrentDonations: 2, Status: models.ReceiverStatusActive}
		s.expectTx()
		s.receivers.EXPECT().FindByIDForUpdate(gomock.Any(), id.ReceiverID(8)).Return(receiver, nil)
		s.receivers.EXPECT().Update(gomock.Any(), receiver).Return(nil)
		s.outbox.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e *audit.OutboxEntry) error {
				s.Equal(audit.EventReceiverUpdated, e.EventType)
				return nil
			})

		required := 2
		progress, err := s.service.UpdateReceiver(s.ctx, 8, &models.UpdateReceiverRequest{RequiredDonations: &required})
		s.Require().NoError(err)
		s.Equal(models.ReceiverStatusCompleted, progress.Status)
		s.Equal(100, progress.ProgressPercentage)
	})

	s.Run("empty update is rejected before the transaction", func() {
		_, err := s.service.UpdateReceiver(s.ctx, 8, &models.UpdateReceiverRequest{})
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func (s *DonationServiceSuite) TestCancelReceiver() {
	s.Run("active receiver is cancelled", func() {
		receiver := &models.Receiver{ID: 8, RequiredDonations: 2, Status: models.ReceiverStatusActive}
		s.expectTx()
		s.receivers.EXPECT().FindByIDForUpdate(gomock.Any(), id.ReceiverID(8)).Return(receiver, nil)
		s.receivers.EXPECT().Update(gomock.Any(), receiver).Return(nil)
		s.outbox.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		progress, err := s.service.CancelReceiver(s.ctx, 8)
		s.Require().NoError(err)
		s.Equal(models.ReceiverStatusCancelled, progress.Status)
	})

	s.Run("completed receiver cannot be cancelled", func() {
		s.expectTx()
		s.receivers.EXPECT().FindByIDForUpdate(gomock.Any(), id.ReceiverID(9)).Return(&models.Receiver{
			ID: 9, RequiredDonations: 1, CurrentDonations: 1, Status: models.ReceiverStatusCompleted,
		}, nil)

		_, err := s.service.CancelReceiver(s.ctx, 9)
		s.Equal(dErrors.CodeStateMismatch, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Assignments
// =============================================================================

func (s *DonationServiceSuite) TestConfirmAssignment() {
	s.Run("pending becomes confirmed", func() {
		assignment := &models.Assignment{ID: 5, DonorID: 1, HospitalID: 2, Status: models.AssignmentStatusPending}
		s.expectTx()
		s.assignments.EXPECT().FindByIDForUpdate(gomock.Any(), id.AssignmentID(5)).Return(assignment, nil)
		s.assignments.EXPECT().Update(gomock.Any(), assignment).Return(nil)
		s.outbox.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)

		snapshot, err := s.service.ConfirmAssignment(s.ctx, 5)
		s.Require().NoError(err)
		s.Equal(models.AssignmentStatusConfirmed, snapshot.Status)
	})

	s.Run("completed assignment cannot be cancelled", func() {
		s.expectTx()
		s.assignments.EXPECT().FindByIDForUpdate(gomock.Any(), id.AssignmentID(6)).Return(&models.Assignment{
			ID: 6, Status: models.AssignmentStatusCompleted,
		}, nil)

		_, err := s.service.CancelAssignment(s.ctx, 6)
		s.Equal(dErrors.CodeStateMismatch, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Reconcile
// =============================================================================

func (s *DonationServiceSuite) TestReconcile() {
	s.tx.EXPECT().RunInReadTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, service.Stores) error) error {
			return fn(ctx, s.stores())
		})
	s.donors.EXPECT().ListTotals(gomock.Any()).Return(map[id.DonorID]int{1: 3, 2: 1}, nil)
	s.ledger.EXPECT().CountCompletedByDonors(gomock.Any(), gomock.Any()).
		Return(map[id.DonorID]int{1: 3, 2: 2}, nil)
	s.receivers.EXPECT().ListCounters(gomock.Any()).Return(map[id.ReceiverID]int{8: 2}, nil)
	s.ledger.EXPECT().CountCompletedByReceivers(gomock.Any(), []id.ReceiverID{8}).
		Return(map[id.ReceiverID]int{}, nil)

	report, err := s.service.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.False(report.Consistent())
	s.Equal(2, report.DonorsChecked)
	s.Equal(1, report.ReceiversChecked)
	s.Equal([]models.Drift{
		{Kind: models.DriftKindDonor, EntityID: 2, Cached: 1, Ledger: 2},
		{Kind: models.DriftKindReceiver, EntityID: 8, Cached: 2, Ledger: 0},
	}, report.Drift)
}

func (s *DonationServiceSuite) TestReconcile_SnapshotFailure() {
	s.tx.EXPECT().RunInReadTx(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

	_, err := s.service.Reconcile(s.ctx)
	s.Equal(dErrors.CodeTimeout, dErrors.CodeOf(err))
}
