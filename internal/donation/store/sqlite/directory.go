package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	txcontext "donorlink/pkg/platform/tx"
)

// Directory inserts the people, hospitals, donors and receivers that
// donations refer to. Used for seeding and tests.
type Directory struct {
	db          *sql.DB
	assignments *AssignmentStore
}

func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db, assignments: NewAssignmentStore(db)}
}

func (d *Directory) CreatePerson(ctx context.Context, p *models.Person) error {
	res, err := txcontext.Executor(ctx, d.db).ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, blood_type, gender, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.FirstName, p.LastName, string(p.BloodType), string(p.Gender), boolToInt(p.IsActive), toMillis(time.Now()),
	)
	if err != nil {
		return classify(err, "insert user")
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: last insert id: %w", err)
	}
	p.ID = id.UserID(newID)
	return nil
}

func (d *Directory) CreateHospital(ctx context.Context, name string) (id.HospitalID, error) {
	res, err := txcontext.Executor(ctx, d.db).ExecContext(ctx,
		`INSERT INTO hospitals (name, created_at) VALUES (?, ?)`, name, toMillis(time.Now()))
	if err != nil {
		return 0, classify(err, "insert hospital")
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert hospital: last insert id: %w", err)
	}
	return id.HospitalID(newID), nil
}

// CreateDonor registers donor and sets its ID. Eligibility fields are stored
// as given so fixtures can start mid-history.
func (d *Directory) CreateDonor(ctx context.Context, donor *models.Donor) error {
	createdAt := donor.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := txcontext.Executor(ctx, d.db).ExecContext(ctx, `
		INSERT INTO donors (user_id, last_donation_date, can_donate_after, total_donations, is_public, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		int64(donor.UserID),
		nullMillis(donor.LastDonationDate),
		nullMillis(donor.CanDonateAfter),
		donor.TotalDonations,
		boolToInt(donor.IsPublic),
		toMillis(createdAt),
	)
	if err != nil {
		return classify(err, "insert donor")
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert donor: last insert id: %w", err)
	}
	donor.ID = id.DonorID(newID)
	donor.CreatedAt = createdAt
	return nil
}

func (d *Directory) CreateReceiver(ctx context.Context, r *models.Receiver) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	status := r.Status
	if status == "" {
		status = models.ReceiverStatusActive
	}
	res, err := txcontext.Executor(ctx, d.db).ExecContext(ctx, `
		INSERT INTO receivers (user_id, hospital_id, blood_type, diagnosis, required_donations,
		                       current_donations, deadline, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(r.UserID),
		int64(r.HospitalID),
		string(r.BloodType),
		r.Diagnosis,
		r.RequiredDonations,
		r.CurrentDonations,
		toMillis(r.Deadline),
		string(status),
		toMillis(createdAt),
	)
	if err != nil {
		return classify(err, "insert receiver")
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert receiver: last insert id: %w", err)
	}
	r.ID = id.ReceiverID(newID)
	r.Status = status
	r.CreatedAt = createdAt
	return nil
}

func (d *Directory) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	return d.assignments.Create(ctx, a)
}
