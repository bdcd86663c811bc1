package postgres

import (
	"context"
	"database/sql"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	txcontext "donorlink/pkg/platform/tx"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func (s *AssignmentStore) FindByIDForUpdate(ctx context.Context, assignmentID id.AssignmentID) (*models.Assignment, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, donor_id, receiver_id, hospital_id, status, assignment_date, donation_date, notes
		FROM assignments WHERE id = $1
		FOR UPDATE`, int64(assignmentID))

	var (
		a                          models.Assignment
		rowID, donorID, hospitalID int64
		receiverID                 sql.NullInt64
		donationDate               sql.NullTime
		status                     string
	)
	if err := row.Scan(&rowID, &donorID, &receiverID, &hospitalID, &status, &a.AssignmentDate, &donationDate, &a.Notes); err != nil {
		return nil, classify(err, "lock assignment")
	}
	a.ID = id.AssignmentID(rowID)
	a.DonorID = id.DonorID(donorID)
	a.ReceiverID = idPtr[id.ReceiverID](receiverID)
	a.HospitalID = id.HospitalID(hospitalID)
	a.Status = models.AssignmentStatus(status)
	a.AssignmentDate = a.AssignmentDate.UTC()
	a.DonationDate = timePtr(donationDate)
	return &a, nil
}

// Create inserts the assignment and sets its ID.
func (s *AssignmentStore) Create(ctx context.Context, a *models.Assignment) error {
	var newID int64
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO assignments (donor_id, receiver_id, hospital_id, status, assignment_date, donation_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		int64(a.DonorID),
		nullID(a.ReceiverID),
		int64(a.HospitalID),
		string(a.Status),
		a.AssignmentDate.UTC(),
		nullTime(a.DonationDate),
		a.Notes,
	).Scan(&newID)
	if err != nil {
		return classify(err, "insert assignment")
	}
	a.ID = id.AssignmentID(newID)
	return nil
}

func (s *AssignmentStore) Update(ctx context.Context, a *models.Assignment) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE assignments SET status = $1, donation_date = $2, notes = $3 WHERE id = $4`,
		string(a.Status),
		nullTime(a.DonationDate),
		a.Notes,
		int64(a.ID),
	)
	if err != nil {
		return classify(err, "update assignment")
	}
	return requireOneRow(res, "update assignment")
}
