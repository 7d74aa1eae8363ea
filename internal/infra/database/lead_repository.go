package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, kind, name, email, phone, birth_date, message,
			consent, source_ip, source_user_agent, source_referrer, source_utm,
			urgency, status, resource_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.DB.ExecContext(
		ctx,
		query,
		lead.ID,
		lead.Kind,
		lead.Name,
		lead.Email,
		nullString(lead.Phone),
		nullString(lead.BirthDate),
		nullString(lead.Message),
		lead.Consent,
		lead.Source.IP,
		nullString(lead.Source.UserAgent),
		nullString(lead.Source.Referrer),
		nullString(lead.Source.UTM),
		lead.Urgency,
		lead.Status,
		nullString(lead.ResourceID),
		lead.CreatedAt,
	)
	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, kind, name, email,
			COALESCE(phone, ''), COALESCE(birth_date, ''), COALESCE(message, ''),
			consent, source_ip, COALESCE(source_user_agent, ''),
			COALESCE(source_referrer, ''), COALESCE(source_utm, ''),
			urgency, status, COALESCE(assigned_to, ''), converted_at,
			COALESCE(resource_id, ''), created_at
		FROM leads
		WHERE id = $1
	`
	lead := &entity.Lead{}
	var convertedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Kind,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.BirthDate,
		&lead.Message,
		&lead.Consent,
		&lead.Source.IP,
		&lead.Source.UserAgent,
		&lead.Source.Referrer,
		&lead.Source.UTM,
		&lead.Urgency,
		&lead.Status,
		&lead.AssignedTo,
		&convertedAt,
		&lead.ResourceID,
		&lead.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if convertedAt.Valid {
		lead.ConvertedAt = &convertedAt.Time
	}
	return lead, nil
}

// UpdateStatus writes only the follow-up fields; everything else on a lead
// stays as written.
func (r *LeadRepository) UpdateStatus(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads
		SET status = $2, assigned_to = $3, converted_at = $4
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Status,
		nullString(lead.AssignedTo),
		nullTime(lead.ConvertedAt),
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return usecase.ErrRecordNotFound
	}
	return nil
}
