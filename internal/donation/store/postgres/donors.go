package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
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
	WHERE d.id = $1`

func (s *DonorStore) FindProfile(ctx context.Context, donorID id.DonorID) (*models.DonorProfile, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, selectDonorProfile, int64(donorID))
	profile, err := scanDonorProfile(row)
	if err != nil {
		return nil, classify(err, "find donor")
	}
	return profile, nil
}

// FindProfileForUpdate locks the donor row (not the user row) until the
// surrounding transaction ends.
func (s *DonorStore) FindProfileForUpdate(ctx context.Context, donorID id.DonorID) (*models.DonorProfile, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, selectDonorProfile+` FOR UPDATE OF d`, int64(donorID))
	profile, err := scanDonorProfile(row)
	if err != nil {
		return nil, classify(err, "lock donor")
	}
	return profile, nil
}

func (s *DonorStore) Update(ctx context.Context, donor *models.Donor) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE donors
		SET last_donation_date = $1, can_donate_after = $2, total_donations = $3
		WHERE id = $4`,
		nullTime(donor.LastDonationDate),
		nullTime(donor.CanDonateAfter),
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
		WHERE d.is_public
		  AND u.is_active
		  AND (d.can_donate_after IS NULL OR d.can_donate_after <= $1)`
	args := []any{now.UTC()}
	if len(bloodTypes) > 0 {
		types := make([]string, len(bloodTypes))
		for i, bt := range bloodTypes {
			types[i] = string(bt)
		}
		query += " AND u.blood_type = ANY($2)"
		args = append(args, pq.Array(types))
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
			last      sql.NullTime
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
	totals := make(map[id.DonorID]int)
	err := scanCounts(ctx, txcontext.Executor(ctx, s.db), "list donor totals",
		`SELECT id, total_donations FROM donors`, nil, func(key int64, n int) {
			totals[id.DonorID(key)] = n
		})
	return totals, err
}

func scanDonorProfile(row scanner) (*models.DonorProfile, error) {
	var (
		donorID, userID   int64
		last, gate        sql.NullTime
		bloodType, gender string
		donor             models.Donor
		profile           models.DonorProfile
	)
	if err := row.Scan(&donorID, &userID, &last, &gate, &donor.TotalDonations,
		&donor.IsPublic, &donor.CreatedAt, &profile.FirstName, &profile.LastName, &bloodType, &gender); err != nil {
		return nil, err
	}
	donor.ID = id.DonorID(donorID)
	donor.UserID = id.UserID(userID)
	donor.LastDonationDate = timePtr(last)
	donor.CanDonateAfter = timePtr(gate)
	donor.CreatedAt = donor.CreatedAt.UTC()
	profile.Donor = &donor
	profile.BloodType = models.BloodType(bloodType)
	profile.Gender = models.Gender(gender)
	return &profile, nil
}

// scanCounts reads (key, count) pairs.
func scanCounts(ctx context.Context, q txcontext.Querier, op, query string, args []any, put func(key int64, n int)) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return classify(err, op)
	}
	defer rows.Close()
	for rows.Next() {
		var key int64
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("%s: scan: %w", op, err)
		}
		put(key, n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: iterate: %w", op, err)
	}
	return nil
}
