package sqlite

import (
	"context"
	"database/sql"
	"fmt"

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
		FROM assignments WHERE id = ?`, int64(assignmentID))

	var (
		a                          models.Assignment
		rowID, donorID, hospitalID int64
		receiverID, donationDate   sql.NullInt64
		assignmentDate             int64
		status                     string
	)
	if err := row.Scan(&rowID, &donorID, &receiverID, &hospitalID, &status, &assignmentDate, &donationDate, &a.Notes); err != nil {
		return nil, classify(err, "find assignment")
	}
	a.ID = id.AssignmentID(rowID)
	a.DonorID = id.DonorID(donorID)
	a.ReceiverID = idPtr[id.ReceiverID](receiverID)
	a.HospitalID = id.HospitalID(hospitalID)
	a.Status = models.AssignmentStatus(status)
	a.AssignmentDate = fromMillis(assignmentDate)
	a.DonationDate = timePtr(donationDate)
	return &a, nil
}

// Create inserts the assignment and sets its ID.
func (s *AssignmentStore) Create(ctx context.Context, a *models.Assignment) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO assignments (donor_id, receiver_id, hospital_id, status, assignment_date, donation_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(a.DonorID),
		nullID(a.ReceiverID),
		int64(a.HospitalID),
		string(a.Status),
		toMillis(a.AssignmentDate),
		nullMillis(a.DonationDate),
		a.Notes,
	)
	if err != nil {
		return classify(err, "insert assignment")
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert assignment: last insert id: %w", err)
	}
	a.ID = id.AssignmentID(newID)
	return nil
}

func (s *AssignmentStore) Update(ctx context.Context, a *models.Assignment) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE assignments SET status = ?, donation_date = ?, notes = ? WHERE id = ?`,
		string(a.Status),
		nullMillis(a.DonationDate),
		a.Notes,
		int64(a.ID),
	)
	if err != nil {
		return classify(err, "update assignment")
	}
	return requireOneRow(res, "update assignment")
}
