package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *entity.DownloadToken) error {
	query := `
		INSERT INTO download_tokens (token_hash, lead_id, resource_id, issued_at, expires_at, redemption_count)
		VALUES ($1, $2, $3, $4, $5, 0)
	`
	_, err := r.DB.ExecContext(ctx, query,
		token.TokenHash,
		token.LeadID,
		token.ResourceID,
		token.IssuedAt,
		token.ExpiresAt,
	)
	return err
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*entity.DownloadToken, error) {
	query := `
		SELECT token_hash, lead_id, resource_id, issued_at, expires_at, redemption_count, last_redeemed_at
		FROM download_tokens
		WHERE token_hash = $1
	`
	token := &entity.DownloadToken{}
	var lastRedeemed sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, hash).Scan(
		&token.TokenHash,
		&token.LeadID,
		&token.ResourceID,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.RedemptionCount,
		&lastRedeemed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastRedeemed.Valid {
		token.LastRedeemedAt = &lastRedeemed.Time
	}
	return token, nil
}

// Redeem bumps the counter in a single UPDATE so concurrent redemptions
// never lose an increment. The expiry guard in the WHERE closes the race
// between lookup and redemption.
func (r *TokenRepository) Redeem(ctx context.Context, hash string, now time.Time) (int, error) {
	query := `
		UPDATE download_tokens
		SET redemption_count = redemption_count + 1, last_redeemed_at = $2
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING redemption_count
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, hash, now).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, usecase.ErrRecordNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
