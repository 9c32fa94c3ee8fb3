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

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, birth_date, email, gender, blood_group,
			insurance_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.ext(ctx).ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.BirthDate,
		patient.Email,
		patient.Gender,
		patient.BloodGroup,
		patient.InsuranceID,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, name, birth_date, email, gender, blood_group,
			   insurance_id, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	err := sqlx.GetContext(ctx, r.ext(ctx), &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `
		SELECT id, name, birth_date, email, gender, blood_group,
			   insurance_id, created_at, updated_at
		FROM patients
		WHERE email = $1
	`
	var patient model.Patient
	err := sqlx.GetContext(ctx, r.ext(ctx), &patient, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, email = $2, gender = $3, blood_group = $4,
			insurance_id = $5, updated_at = $6
		WHERE id = $7
	`
	patient.UpdatedAt = time.Now()

	result, err := r.ext(ctx).ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Gender,
		patient.BloodGroup,
		patient.InsuranceID,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE id = $1`

	result, err := r.ext(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("patient", nil)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `
		SELECT id, name, birth_date, email, gender, blood_group,
			   insurance_id, created_at, updated_at
		FROM patients
		ORDER BY created_at ASC, id ASC
	`
	var patients []*model.Patient
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ListByBirthDateRange(ctx context.Context, start, end time.Time) ([]*model.Patient, error) {
	query := `
		SELECT id, name, birth_date, email, gender, blood_group,
			   insurance_id, created_at, updated_at
		FROM patients
		WHERE birth_date BETWEEN $1 AND $2
		ORDER BY birth_date ASC, id ASC
	`
	var patients []*model.Patient
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &patients, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list patients by birth date: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM patients WHERE email = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check patient email: %w", err)
	}
	return exists, nil
}

func (r *patientRepository) ExistsByNameAndBirthDate(ctx context.Context, name string, birthDate time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM patients WHERE name = $1 AND birth_date = $2)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, name, birthDate); err != nil {
		return false, fmt.Errorf("failed to check patient name and birth date: %w", err)
	}
	return exists, nil
}
