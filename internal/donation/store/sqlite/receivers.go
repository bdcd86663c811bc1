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

type ReceiverStore struct {
	db *sql.DB
}

func NewReceiverStore(db *sql.DB) *ReceiverStore {
	return &ReceiverStore{db: db}
}

const receiverColumns = `id, user_id, hospital_id, blood_type, diagnosis, required_donations,
	current_donations, deadline, status, created_at`

func (s *ReceiverStore) FindByID(ctx context.Context, receiverID id.ReceiverID) (*models.Receiver, error) {
	row := txcontext.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+receiverColumns+` FROM receivers WHERE id = ?`, int64(receiverID))
	receiver, err := scanReceiver(row)
	if err != nil {
		return nil, classify(err, "find receiver")
	}
	return receiver, nil
}

func (s *ReceiverStore) FindByIDForUpdate(ctx context.Context, receiverID id.ReceiverID) (*models.Receiver, error) {
	return s.FindByID(ctx, receiverID)
}

func (s *ReceiverStore) Update(ctx context.Context, receiver *models.Receiver) error {
	res, err := txcontext.Executor(ctx, s.db).ExecContext(ctx, `
		UPDATE receivers
		SET required_donations = ?, current_donations = ?, status = ?
		WHERE id = ?`,
		receiver.RequiredDonations,
		receiver.CurrentDonations,
		string(receiver.Status),
		int64(receiver.ID),
	)
	if err != nil {
		return classify(err, "update receiver")
	}
	return requireOneRow(res, "update receiver")
}

func (s *ReceiverStore) ListActiveDueBefore(ctx context.Context, deadline time.Time) ([]*models.Receiver, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT `+receiverColumns+` FROM receivers
		WHERE status = 'active' AND deadline <= ?
		ORDER BY deadline, id`, toMillis(deadline))
	if err != nil {
		return nil, classify(err, "list urgent receivers")
	}
	defer rows.Close()

	var receivers []*models.Receiver
	for rows.Next() {
		receiver, err := scanReceiver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receiver: %w", err)
		}
		receivers = append(receivers, receiver)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receivers: %w", err)
	}
	return receivers, nil
}

func (s *ReceiverStore) ListCounters(ctx context.Context) (map[id.ReceiverID]int, error) {
	rows, err := txcontext.Executor(ctx, s.db).QueryContext(ctx, `SELECT id, current_donations FROM receivers`)
	if err != nil {
		return nil, classify(err, "list receiver counters")
	}
	defer rows.Close()

	counters := make(map[id.ReceiverID]int)
	for rows.Next() {
		var receiverID int64
		var current int
		if err := rows.Scan(&receiverID, &current); err != nil {
			return nil, fmt.Errorf("scan receiver counter: %w", err)
		}
		counters[id.ReceiverID(receiverID)] = current
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receiver counters: %w", err)
	}
	return counters, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceiver(row scanner) (*models.Receiver, error) {
	var (
		r                              models.Receiver
		receiverID, userID, hospitalID int64
		deadline, createdAt            int64
		bloodType, status              string
	)
	if err := row.Scan(&receiverID, &userID, &hospitalID, &bloodType, &r.Diagnosis,
		&r.RequiredDonations, &r.CurrentDonations, &deadline, &status, &createdAt); err != nil {
		return nil, err
	}
	r.ID = id.ReceiverID(receiverID)
	r.UserID = id.UserID(userID)
	r.HospitalID = id.HospitalID(hospitalID)
	r.BloodType = models.BloodType(bloodType)
	r.Deadline = fromMillis(deadline)
	r.Status = models.ReceiverStatus(status)
	r.CreatedAt = fromMillis(createdAt)
	return &r, nil
}
