package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	"donorlink/pkg/platform/sentinel"
	txcontext "donorlink/pkg/platform/tx"
)

type DonorStore struct {
	db *sql.DB
}

func NewDonorStore(db *sql.DB) *DonorStore {
	return &DonorStore{db: db}
}

const selectDonorProfile = `
	SELECT d.id, d.user_id, d.last_donation_date, d.can_donate_after, d.total_donations,
	       d.is_public, d.created_at, u.first_name, u.last_name, u.blood_type, u.gender
	FROM donors d
	JOIN users u ON u.id = d.user_id
	WHERE d.id = ?`

func (s *DonorStore) FindProfile(ctx context.Context, donorID id.DonorID) (*models.DonorProfile, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, selectDonorProfile, int64(donorID))
	profile, err := scanDonorProfile(row)
	if err != nil {
		return nil, classify(err, "find donor")
	}
	return profile, nil
}

// FindProfileForUpdate reads the donor inside the caller's transaction. SQLite
// has no row locks; the immediate transaction already holds the write lock.
func (s *DonorStore) FindProfileForUpdate(ctx context.Context, donorID id.DonorID) (*models.DonorProfile, error) {
	return s.FindProfile(ctx, donorID)
}

func (s *DonorStore) Update(ctx context.Context, donor *models.Donor) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE donors
		SET last_donation_date = ?, can_donate_after = ?, total_donations = ?
		WHERE id = ?`,
		nullMillis(donor.LastDonationDate),
		nullMillis(donor.CanDonateAfter),
		donor.TotalDonations,
		int64(donor.ID),
	)
	if err != nil {
		return classify(err, "update donor")
	}
	return requireOneRow(res, "update donor")
}

func (s *DonorStore) ListAvailable(ctx context.Context, bloodTypes []models.BloodType, now time.Time) ([]*models.AvailableDonor, error) {
	query := `
		SELECT d.id, u.first_name, u.last_name, u.blood_type, d.last_donation_date, d.total_donations
		FROM donors d
		JOIN users u ON u.id = d.user_id
		WHERE d.is_public = 1
		  AND u.is_active = 1
		  AND (d.can_donate_after IS NULL OR d.can_donate_after <= ?)`
	args := []any{toMillis(now)}
	if len(bloodTypes) > 0 {
		query += " AND u.blood_type IN (" + placeholders(len(bloodTypes)) + ")"
		for _, bt := range bloodTypes {
			args = append(args, string(bt))
		}
	}
	query += " ORDER BY d.id"

	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list available donors")
	}
	defer rows.Close()

	var donors []*models.AvailableDonor
	for rows.Next() {
		var (
			d         models.AvailableDonor
			donorID   int64
			bloodType string
			last      sql.NullInt64
		)
		if err := rows.Scan(&donorID, &d.FirstName, &d.LastName, &bloodType, &last, &d.TotalDonations); err != nil {
			return nil, fmt.Errorf("scan available donor: %w", err)
		}
		d.DonorID = id.DonorID(donorID)
		d.BloodType = models.BloodType(bloodType)
		d.LastDonationDate = timePtr(last)
		donors = append(donors, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate available donors: %w", err)
	}
	return donors, nil
}

func (s *DonorStore) ListTotals(ctx context.Context) (map[id.DonorID]int, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `SELECT id, total_donations FROM donors`)
	if err != nil {
		return nil, classify(err, "list donor totals")
	}
	defer rows.Close()

	totals := make(map[id.DonorID]int)
	for rows.Next() {
		var donorID int64
		var total int
		if err := rows.Scan(&donorID, &total); err != nil {
			return nil, fmt.Errorf("scan donor total: %w", err)
		}
		totals[id.DonorID(donorID)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate donor totals: %w", err)
	}
	return totals, nil
}

func scanDonorProfile(row scanner) (*models.DonorProfile, error) {
	var (
		donorID, userID, createdAt int64
		last, gate                 sql.NullInt64
		isPublic                   int
		bloodType, gender          string
		donor                      models.Donor
		profile                    models.DonorProfile
	)
	if err := row.Scan(&donorID, &userID, &last, &gate, &donor.TotalDonations,
		&isPublic, &createdAt, &profile.FirstName, &profile.LastName, &bloodType, &gender); err != nil {
		return nil, err
	}
	donor.ID = id.DonorID(donorID)
	donor.UserID = id.UserID(userID)
	donor.LastDonationDate = timePtr(last)
	donor.CanDonateAfter = timePtr(gate)
	donor.IsPublic = isPublic != 0
	donor.CreatedAt = fromMillis(createdAt)
	profile.Donor = &donor
	profile.BloodType = models.BloodType(bloodType)
	profile.Gender = models.Gender(gender)
	return &profile, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
	}
	return nil
}
