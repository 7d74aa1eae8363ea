package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harborlight-care/leadcore/internal/entity"
	"github.com/harborlight-care/leadcore/internal/usecase"
)

type ResourceRepository struct {
	DB *sql.DB
}

func NewResourceRepository(db *sql.DB) *ResourceRepository {
	return &ResourceRepository{DB: db}
}

func (r *ResourceRepository) FindByID(ctx context.Context, id string) (*entity.Resource, error) {
	query := `
		SELECT id, name, file_reference, availability, expiry_days
		FROM resources
		WHERE id = $1
	`
	resource := &entity.Resource{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&resource.ID,
		&resource.Name,
		&resource.FileReference,
		&resource.Availability,
		&resource.ExpiryDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, usecase.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return resource, nil
}
