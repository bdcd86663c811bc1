package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"donorlink/internal/donation/models"
	id "donorlink/pkg/domain"
	txcontext "donorlink/pkg/platform/tx"
)

// LedgerStore appends and reads donation_ledger rows. Triggers reject any
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
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO donation_ledger (donor_id, receiver_id, hospital_id, donation_date, blood_type, amount_ml, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(entry.DonorID),
		nullID(entry.ReceiverID),
		int64(entry.HospitalID),
		toMillis(entry.DonationDate),
		string(entry.BloodType),
		entry.AmountML,
		string(entry.Status),
		entry.Notes,
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		return classify(err, "append ledger entry")
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append ledger entry: last insert id: %w", err)
	}
	entry.ID = id.LedgerEntryID(newID)
	return nil
}

// ListByDonor and ListByReceiver return completed entries only, newest first.
func (s *LedgerStore) ListByDonor(ctx context.Context, donorID id.DonorID) ([]*models.LedgerEntry, error) {
	return s.list(ctx, "list donor ledger",
		`SELECT `+ledgerColumns+` FROM donation_ledger WHERE donor_id = ? AND status = 'completed' ORDER BY donation_date DESC, id DESC`,
		int64(donorID))
}

func (s *LedgerStore) ListByReceiver(ctx context.Context, receiverID id.ReceiverID) ([]*models.LedgerEntry, error) {
	return s.list(ctx, "list receiver ledger",
		`SELECT `+ledgerColumns+` FROM donation_ledger WHERE receiver_id = ? AND status = 'completed' ORDER BY donation_date DESC, id DESC`,
		int64(receiverID))
}

func (s *LedgerStore) CountCompletedByDonors(ctx context.Context, donorIDs []id.DonorID) (map[id.DonorID]int, error) {
	counts := make(map[id.DonorID]int, len(donorIDs))
	if len(donorIDs) == 0 {
		return counts, nil
	}
	args := make([]any, len(donorIDs))
	for i, v := range donorIDs {
		args[i] = int64(v)
	}
	err := s.count(ctx, "count donor ledger", `
		SELECT donor_id, COUNT(*) FROM donation_ledger
		WHERE status = 'completed' AND donor_id IN (`+placeholders(len(args))+`)
		GROUP BY donor_id`, args, func(key int64, n int) {
		counts[id.DonorID(key)] = n
	})
	return counts, err
}

func (s *LedgerStore) CountCompletedByReceivers(ctx context.Context, receiverIDs []id.ReceiverID) (map[id.ReceiverID]int, error) {
	counts := make(map[id.ReceiverID]int, len(receiverIDs))
	if len(receiverIDs) == 0 {
		return counts, nil
	}
	args := make([]any, len(receiverIDs))
	for i, v := range receiverIDs {
		args[i] = int64(v)
	}
	err := s.count(ctx, "count receiver ledger", `
		SELECT receiver_id, COUNT(*) FROM donation_ledger
		WHERE status = 'completed' AND receiver_id IN (`+placeholders(len(args))+`)
		GROUP BY receiver_id`, args, func(key int64, n int) {
		counts[id.ReceiverID(key)] = n
	})
	return counts, err
}

func (s *LedgerStore) count(ctx context.Context, op, query string, args []any, put func(key int64, n int)) error {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, query, args...)
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
			donationDate, createdAt    int64
			bloodType, status          string
		)
		if err := rows.Scan(&entryID, &donorID, &receiverID, &hospital, &donationDate,
			&bloodType, &e.AmountML, &status, &e.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		e.ID = id.LedgerEntryID(entryID)
		e.DonorID = id.DonorID(donorID)
		e.ReceiverID = idPtr[id.ReceiverID](receiverID)
		e.HospitalID = id.HospitalID(hospital)
		e.DonationDate = fromMillis(donationDate)
		e.BloodType = models.BloodType(bloodType)
		e.Status = models.LedgerStatus(status)
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return entries, nil
}
