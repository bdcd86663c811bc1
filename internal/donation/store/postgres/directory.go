package postgres

import (
	"context"
	"database/sql"
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
	var newID int64
	err := txcontext.Executor(ctx, d.db).QueryRowContext(ctx, `
		INSERT INTO users (first_name, last_name, blood_type, gender, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.FirstName, p.LastName, string(p.BloodType), string(p.Gender), p.IsActive,
	).Scan(&newID)
	if err != nil {
		return classify(err, "insert user")
	}
	p.ID = id.UserID(newID)
	return nil
}

func (d *Directory) CreateHospital(ctx context.Context, name string) (id.HospitalID, error) {
	var newID int64
	err := txcontext.Executor(ctx, d.db).QueryRowContext(ctx,
		`INSERT INTO hospitals (name) VALUES ($1) RETURNING id`, name).Scan(&newID)
	if err != nil {
		return 0, classify(err, "insert hospital")
	}
	return id.HospitalID(newID), nil
}

// CreateDonor registers donor and sets its ID. Eligibility fields are stored
// as given so fixtures can start mid-history.
func (d *Directory) CreateDonor(ctx context.Context, donor *models.Donor) error {
	if donor.CreatedAt.IsZero() {
		donor.CreatedAt = time.Now().UTC()
	}
	var newID int64
	err := txcontext.Executor(ctx, d.db).QueryRowContext(ctx, `
		INSERT INTO donors (user_id, last_donation_date, can_donate_after, total_donations, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		int64(donor.UserID),
		nullTime(donor.LastDonationDate),
		nullTime(donor.CanDonateAfter),
		donor.TotalDonations,
		donor.IsPublic,
		donor.CreatedAt.UTC(),
	).Scan(&newID)
	if err != nil {
		return classify(err, "insert donor")
	}
	donor.ID = id.DonorID(newID)
	return nil
}

func (d *Directory) CreateReceiver(ctx context.Context, r *models.Receiver) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Status == "" {
		r.Status = models.ReceiverStatusActive
	}
	var newID int64
	err := txcontext.Executor(ctx, d.db).QueryRowContext(ctx, `
		INSERT INTO receivers (user_id, hospital_id, blood_type, diagnosis, required_donations,
		                       current_donations, deadline, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		int64(r.UserID),
		int64(r.HospitalID),
		string(r.BloodType),
		r.Diagnosis,
		r.RequiredDonations,
		r.CurrentDonations,
		r.Deadline.UTC(),
		string(r.Status),
		r.CreatedAt.UTC(),
	).Scan(&newID)
	if err != nil {
		return classify(err, "insert receiver")
	}
	r.ID = id.ReceiverID(newID)
	return nil
}

func (d *Directory) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	return d.assignments.Create(ctx, a)
}
