package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hospitalon/hospital-api/internal/model"
	apperrors "github.com/hospitalon/hospital-api/pkg/errors"
)

func (r *insuranceRepository) Create(ctx context.Context, insurance *model.Insurance) error {
	query := `
		INSERT INTO insurances (
			id, policy_number, provider, valid_until, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	insurance.ID = uuid.New()
	insurance.CreatedAt = time.Now()
	insurance.UpdatedAt = time.Now()

	_, err := r.ext(ctx).ExecContext(ctx, query,
		insurance.ID,
		insurance.PolicyNumber,
		insurance.Provider,
		insurance.ValidUntil,
		insurance.CreatedAt,
		insurance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create insurance: %w", err)
	}
	return nil
}

func (r *insuranceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Insurance, error) {
	query := `
		SELECT id, policy_number, provider, valid_until, created_at, updated_at
		FROM insurances
		WHERE id = $1
	`
	var insurance model.Insurance
	err := sqlx.GetContext(ctx, r.ext(ctx), &insurance, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("insurance", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance: %w", err)
	}
	return &insurance, nil
}

func (r *insuranceRepository) GetByPolicyNumber(ctx context.Context, policyNumber string) (*model.Insurance, error) {
	query := `
		SELECT id, policy_number, provider, valid_until, created_at, updated_at
		FROM insurances
		WHERE policy_number = $1
	`
	var insurance model.Insurance
	err := sqlx.GetContext(ctx, r.ext(ctx), &insurance, query, policyNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("insurance", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance by policy number: %w", err)
	}
	return &insurance, nil
}

func (r *insuranceRepository) Update(ctx context.Context, insurance *model.Insurance) error {
	query := `
		UPDATE insurances
		SET policy_number = $1, provider = $2, valid_until = $3, updated_at = $4
		WHERE id = $5
	`
	insurance.UpdatedAt = time.Now()

	result, err := r.ext(ctx).ExecContext(ctx, query,
		insurance.PolicyNumber,
		insurance.Provider,
		insurance.ValidUntil,
		insurance.UpdatedAt,
		insurance.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update insurance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("insurance", nil)
	}
	return nil
}

func (r *insuranceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM insurances WHERE id = $1`

	result, err := r.ext(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete insurance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("insurance", nil)
	}
	return nil
}

func (r *insuranceRepository) ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM insurances WHERE policy_number = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, policyNumber); err != nil {
		return false, fmt.Errorf("failed to check policy number: %w", err)
	}
	return exists, nil
}

func (r *insuranceRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*model.Insurance, error) {
	query := `
		SELECT id, policy_number, provider, valid_until, created_at, updated_at
		FROM insurances
		WHERE valid_until < $1
		ORDER BY valid_until ASC, id ASC
	`
	var insurances []*model.Insurance
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &insurances, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list expiring insurances: %w", err)
	}
	return insurances, nil
}
