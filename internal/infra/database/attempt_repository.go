package database

import (
	"context"
	"database/sql"

	"github.com/harborlight-care/leadcore/internal/entity"
)

// AttemptRepository is the append-only delivery audit trail.
type AttemptRepository struct {
	DB *sql.DB
}

func NewAttemptRepository(db *sql.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Append(ctx context.Context, attempt *entity.NotificationAttempt) error {
	query := `
		INSERT INTO notification_attempts (id, lead_id, channel, target, payload, outcome, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		attempt.ID,
		attempt.LeadID,
		attempt.Channel,
		attempt.Target,
		attempt.Payload,
		attempt.Outcome,
		nullString(attempt.Error),
		attempt.CreatedAt,
	)
	return err
}

// ListByLead exists for the admin side to show the delivery history of one
// lead.
func (r *AttemptRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.NotificationAttempt, error) {
	query := `
		SELECT id, lead_id, channel, target, payload, outcome, COALESCE(error, ''), created_at
		FROM notification_attempts
		WHERE lead_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*entity.NotificationAttempt
	for rows.Next() {
		a := &entity.NotificationAttempt{}
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Channel, &a.Target, &a.Payload, &a.Outcome, &a.Error, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
