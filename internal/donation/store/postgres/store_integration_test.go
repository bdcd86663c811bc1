//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"donorlink/internal/audit"
	"donorlink/internal/donation/models"
	"donorlink/internal/donation/service"
	"donorlink/internal/donation/store"
	"donorlink/internal/donation/store/postgres"
	"donorlink/internal/platform/database"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/requestcontext"
	"donorlink/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	db      *sql.DB
	dir     *postgres.Directory
	service *service.Service
	demo    *store.Demo
	now     time.Time
	ctx     context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	db, err := postgres.Open(context.Background(), database.Config{URL: s.pg.DSN, MaxOpenConns: 10})
	s.Require().NoError(err)
	s.db = db
	s.dir = postgres.NewDirectory(db)
	s.service = service.New(postgres.NewTx(db, 5*time.Second, 200*time.Millisecond), postgres.NewStores(db))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	_ = s.db.Close()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.now = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.Require().NoError(s.pg.Truncate(context.Background(),
		"outbox", "donation_ledger", "assignments", "receivers", "donors", "hospitals", "users"))

	var err error
	s.demo, err = store.SeedDemo(s.ctx, s.dir, s.now)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) count(query string, args ...any) int {
	var n int
	s.Require().NoError(s.db.QueryRow(query, args...).Scan(&n))
	return n
}

func (s *PostgresStoreSuite) TestAssignmentDonationCommitsAtomically() {
	result, err := s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{
		DonorID:      s.demo.Donors[0],
		HospitalID:   s.demo.Hospital,
		AssignmentID: &s.demo.Assignment,
	})
	s.Require().NoError(err)
	s.Equal(models.AssignmentStatusCompleted, result.Assignment.Status)
	s.Equal(1, result.Assignment.Receiver.CurrentDonations)

	s.Equal(1, s.count(`SELECT total_donations FROM donors WHERE id = $1`, int64(s.demo.Donors[0])))
	s.Equal(1, s.count(`SELECT COUNT(*) FROM donation_ledger WHERE donor_id = $1`, int64(s.demo.Donors[0])))
	s.Equal(1, s.count(`SELECT COUNT(*) FROM outbox`))

	history, err := s.service.DonationHistory(s.ctx, s.demo.Donors[0])
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(s.now, history[0].DonationDate)
}

func (s *PostgresStoreSuite) TestConcurrentDonationsForOneDonorRecordOnce() {
	donorID := s.demo.Donors[1]
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{DonorID: donorID, HospitalID: s.demo.Hospital})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		// Losers either saw the committed gate or gave up waiting on the row lock.
		s.True(dErrors.HasCode(err, dErrors.CodeNotEligible) || dErrors.HasCode(err, dErrors.CodeTimeout), "unexpected error: %v", err)
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.count(`SELECT total_donations FROM donors WHERE id = $1`, int64(donorID)))
	s.Equal(1, s.count(`SELECT COUNT(*) FROM donation_ledger WHERE donor_id = $1`, int64(donorID)))
}

func (s *PostgresStoreSuite) TestLockedDonorTimesOut() {
	holder, err := s.db.BeginTx(context.Background(), nil)
	s.Require().NoError(err)
	defer func() { _ = holder.Rollback() }()
	_, err = holder.Exec(`SELECT id FROM donors WHERE id = $1 FOR UPDATE`, int64(s.demo.Donors[2]))
	s.Require().NoError(err)

	_, err = s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{DonorID: s.demo.Donors[2], HospitalID: s.demo.Hospital})

	s.Require().Error(err)
	s.Equal(dErrors.CodeTimeout, dErrors.CodeOf(err))
	s.True(dErrors.IsRetryable(err))
	s.Equal(0, s.count(`SELECT COUNT(*) FROM donation_ledger`))
}

func (s *PostgresStoreSuite) TestSecondAssignmentCompletesReceiver() {
	_, err := s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{
		DonorID: s.demo.Donors[0], HospitalID: s.demo.Hospital, AssignmentID: &s.demo.Assignment,
	})
	s.Require().NoError(err)

	receiverID := s.demo.Receiver
	second := &models.Assignment{
		DonorID: s.demo.Donors[1], ReceiverID: &receiverID, HospitalID: s.demo.Hospital,
		Status: models.AssignmentStatusConfirmed, AssignmentDate: s.now,
	}
	s.Require().NoError(s.dir.CreateAssignment(s.ctx, second))

	_, err = s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{
		DonorID: s.demo.Donors[1], HospitalID: s.demo.Hospital, AssignmentID: &second.ID,
	})
	s.Require().NoError(err)

	progress, err := s.service.ReceiverProgress(s.ctx, s.demo.Receiver)
	s.Require().NoError(err)
	s.Equal(models.ReceiverStatusCompleted, progress.Status)
	s.Equal(100, progress.ProgressPercentage)

	report, err := s.service.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.True(report.Consistent())
}

func (s *PostgresStoreSuite) TestLedgerIsAppendOnly() {
	_, err := s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{DonorID: s.demo.Donors[1], HospitalID: s.demo.Hospital})
	s.Require().NoError(err)

	_, err = s.db.Exec(`UPDATE donation_ledger SET amount_ml = 1`)
	s.Error(err)
	_, err = s.db.Exec(`DELETE FROM donation_ledger`)
	s.Error(err)
}

func (s *PostgresStoreSuite) TestAvailableDonorsFiltersByCompatibility() {
	donors, err := s.service.AvailableDonors(s.ctx, "A-")
	s.Require().NoError(err)
	s.Require().Len(donors, 1)
	s.Equal(s.demo.Donors[0], donors[0].DonorID)
}

type recordingPublisher struct {
	entries []*audit.OutboxEntry
}

func (p *recordingPublisher) Publish(_ context.Context, entries []*audit.OutboxEntry) error {
	p.entries = append(p.entries, entries...)
	return nil
}

func (s *PostgresStoreSuite) TestOutboxRelay() {
	_, err := s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{DonorID: s.demo.Donors[1], HospitalID: s.demo.Hospital})
	s.Require().NoError(err)

	publisher := &recordingPublisher{}
	relay := audit.NewRelay(postgres.NewOutboxStore(s.db), publisher)
	published, err := relay.Drain(context.Background())
	s.Require().NoError(err)
	s.Equal(1, published)
	s.Equal(0, s.count(`SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`))

	var payload struct {
		BloodType string `json:"blood_type"`
	}
	s.Require().NoError(json.Unmarshal(publisher.entries[0].Payload, &payload))
	s.Equal("A+", payload.BloodType)
}

func (s *PostgresStoreSuite) TestConcurrentDonationsFromManyDonorsToOneReceiver() {
	const donors = 10
	drive, err := store.SeedDrive(s.ctx, s.dir, s.demo.Hospital, donors, s.now)
	s.Require().NoError(err)
	// Every donor must win; the receiver row lock serializes them.
	svc := service.New(postgres.NewTx(s.db, 10*time.Second, 5*time.Second), postgres.NewStores(s.db))

	var wg sync.WaitGroup
	errs := make([]error, donors)
	for i := range donors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordDonation(s.ctx, &models.RecordDonationRequest{
				DonorID:      drive.Donors[i],
				HospitalID:   s.demo.Hospital,
				AssignmentID: &drive.Assignments[i],
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		s.NoError(err, "donor %d", i)
	}
	current := s.count(`SELECT current_donations FROM receivers WHERE id = $1`, int64(drive.Receiver))
	s.Equal(donors, current)
	s.Equal(current, s.count(`SELECT COUNT(*) FROM donation_ledger WHERE receiver_id = $1 AND status = 'completed'`, int64(drive.Receiver)))

	progress, err := svc.ReceiverProgress(s.ctx, drive.Receiver)
	s.Require().NoError(err)
	s.Equal(models.ReceiverStatusCompleted, progress.Status)
}

func (s *PostgresStoreSuite) TestReconcileDuringDonationsSeesNoDrift() {
	const donors = 6
	drive, err := store.SeedDrive(s.ctx, s.dir, s.demo.Hospital, donors, s.now)
	s.Require().NoError(err)
	svc := service.New(postgres.NewTx(s.db, 10*time.Second, 5*time.Second), postgres.NewStores(s.db))

	var wg sync.WaitGroup
	for i := range donors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.RecordDonation(s.ctx, &models.RecordDonationRequest{
				DonorID:      drive.Donors[i],
				HospitalID:   s.demo.Hospital,
				AssignmentID: &drive.Assignments[i],
			})
		}(i)
	}

	var reports []*models.ReconciliationReport
	for range 5 {
		report, err := svc.Reconcile(s.ctx)
		s.Require().NoError(err)
		reports = append(reports, report)
	}
	wg.Wait()

	for _, report := range reports {
		s.True(report.Consistent(), "drift: %+v", report.Drift)
	}
}

func (s *PostgresStoreSuite) TestHistoryListsCompletedEntriesOnly() {
	_, err := s.service.RecordDonation(s.ctx, &models.RecordDonationRequest{DonorID: s.demo.Donors[1], HospitalID: s.demo.Hospital})
	s.Require().NoError(err)
	_, err = s.db.Exec(`
		INSERT INTO donation_ledger (donor_id, hospital_id, donation_date, blood_type, amount_ml, status, notes, created_at)
		VALUES ($1, $2, $3, 'A+', 450, 'pending', '', $3)`,
		int64(s.demo.Donors[1]), int64(s.demo.Hospital), s.now)
	s.Require().NoError(err)

	history, err := s.service.DonationHistory(s.ctx, s.demo.Donors[1])
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(models.LedgerStatusCompleted, history[0].Status)
}
