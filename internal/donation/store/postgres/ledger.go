package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	txcontext "donorlink/pkg/platform/tx"
)

// LedgerStore appends and reads donation_ledger rows. A trigger rejects any
// UPDATE or DELETE on the table.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

const ledgerColumns = `id, donor_id, receiver_id, hospital_id, donation_date, blood_type, amount_ml, status, notes, created_at`

// Append inserts entry and sets its ID.
func (s *LedgerStore) Append(ctx context.Context, entry *models.LedgerEntry) error {
	var newID int64
	err := txcontext.Executor(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO donation_ledger (donor_id, receiver_id, hospital_id, donation_date, blood_type, amount_ml, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		int64(entry.DonorID),
		nullID(entry.ReceiverID),
		int64(entry.HospitalID),
		entry.DonationDate.UTC(),
		string(entry.BloodType),
		entry.AmountML,
		string(entry.Status),
		entry.Notes,
		entry.CreatedAt.UTC(),
	).Scan(&newID)
	if err != nil {
		return classify(err, "append ledger entry")
	}
	entry.ID = id.LedgerEntryID(newID)
	return nil
}

// ListByDonor and ListByReceiver return completed entries only, newest first.
func (s *LedgerStore) ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.LedgerEntry, error) {
	return s.list(ctx, "list donor ledger",
		`SELECT `+ledgerColumns+` FROM donation_ledger WHERE donor_id = $1 AND status = 'completed' ORDER BY donation_date DESC, id DESC`,
		int64(donorID))
}

func (s *LedgerStore) ListByReceiver(ctx context.Context, receiverID id.ReceiverID) ([]*models.LedgerEntry, error) {
	return s.list(ctx, "list receiver ledger",
		`SELECT `+ledgerColumns+` FROM donation_ledger WHERE receiver_id = $1 AND status = 'completed' ORDER BY donation_date DESC, id DESC`,
		int64(receiverID))
}

func (s *LedgerStore) CountCompletedByDonors(ctx context.Context, donorIDs []id.DonorID) (map[id.DonorID]int, error) {
	counts := make(map[id.DonorID]int, len(donorIDs))
	if len(donorIDs) == 0 {
		return counts, nil
	}
	err := scanCounts(ctx, txcontext.Executor(ctx, s.db), "count donor ledger", `
		SELECT donor_id, COUNT(*) FROM donation_ledger
		WHERE status = 'completed' AND donor_id = ANY($1)
		GROUP BY donor_id`, []any{pq.Array(int64s(donorIDs))}, func(key int64, n int) {
		counts[id.DonorID(key)] = n
	})
	return counts, err
}

func (s *LedgerStore) CountCompletedByReceivers(ctx context.Context, receiverIDs []id.ReceiverID) (map[id.ReceiverID]int, error) {
	counts := make(map[id.ReceiverID]int, len(receiverIDs))
	if len(receiverIDs) == 0 {
		return counts, nil
	}
	err := scanCounts(ctx, txcontext.Executor(ctx, s.db), "count receiver ledger", `
		SELECT receiver_id, COUNT(*) FROM donation_ledger
		WHERE status = 'completed' AND receiver_id = ANY($1)
		GROUP BY receiver_id`, []any{pq.Array(int64s(receiverIDs))}, func(key int64, n int) {
		counts[id.ReceiverID(key)] = n
	})
	return counts, err
}

func (s *LedgerStore) list(ctx context.Context, op, query string, args ...any) ([]*models.LedgerEntry, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, op)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var (
			e                          models.LedgerEntry
			entryID, donorID, hospital int64
			receiverID                 sql.NullInt64
			bloodType, status          string
		)
		if err := rows.Scan(&entryID, &donorID, &receiverID, &hospital, &e.DonationDate,
			&bloodType, &e.AmountML, &status, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		e.ID = id.LedgerEntryID(entryID)
		e.DonorID = id.DonorID(donorID)
		e.ReceiverID = idPtr[id.ReceiverID](receiverID)
		e.HospitalID = id.HospitalID(hospital)
		e.DonationDate = e.DonationDate.UTC()
		e.BloodType = models.BloodType(bloodType)
		e.Status = models.LedgerStatus(status)
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return entries, nil
}
