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

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, specialization, email, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.ext(ctx).ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.Email,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, email, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := sqlx.GetContext(ctx, r.ext(ctx), &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, email, created_at, updated_at
		FROM doctors
		WHERE email = $1
	`
	var doctor model.Doctor
	err := sqlx.GetContext(ctx, r.ext(ctx), &doctor, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2, email = $3, updated_at = $4
		WHERE id = $5
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.ext(ctx).ExecContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.Email,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM doctors WHERE id = $1`

	result, err := r.ext(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, email, created_at, updated_at
		FROM doctors
		ORDER BY created_at ASC, id ASC
	`
	var doctors []*model.Doctor
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, email, created_at, updated_at
		FROM doctors
		WHERE LOWER(specialization) = LOWER($1)
		ORDER BY created_at ASC, id ASC
	`
	var doctors []*model.Doctor
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &doctors, query, specialization); err != nil {
		return nil, fmt.Errorf("failed to list doctors by specialization: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM doctors WHERE email = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check doctor email: %w", err)
	}
	return exists, nil
}
