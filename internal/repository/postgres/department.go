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

func (r *departmentRepository) Create(ctx context.Context, department *model.Department) error {
	query := `
		INSERT INTO departments (
			id, name, head_doctor_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5)
	`
	department.ID = uuid.New()
	department.CreatedAt = time.Now()
	department.UpdatedAt = time.Now()

	_, err := r.ext(ctx).ExecContext(ctx, query,
		department.ID,
		department.Name,
		department.HeadDoctorID,
		department.CreatedAt,
		department.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `
		SELECT id, name, head_doctor_id, created_at, updated_at
		FROM departments
		WHERE id = $1
	`
	var department model.Department
	err := sqlx.GetContext(ctx, r.ext(ctx), &department, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("department", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &department, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*model.Department, error) {
	query := `
		SELECT id, name, head_doctor_id, created_at, updated_at
		FROM departments
		WHERE name = $1
	`
	var department model.Department
	err := sqlx.GetContext(ctx, r.ext(ctx), &department, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("department", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department by name: %w", err)
	}
	return &department, nil
}

func (r *departmentRepository) Update(ctx context.Context, department *model.Department) error {
	query := `
		UPDATE departments
		SET name = $1, head_doctor_id = $2, updated_at = $3
		WHERE id = $4
	`
	department.UpdatedAt = time.Now()

	result, err := r.ext(ctx).ExecContext(ctx, query,
		department.Name,
		department.HeadDoctorID,
		department.UpdatedAt,
		department.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("department", nil)
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM departments WHERE id = $1`

	result, err := r.ext(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("department", nil)
	}
	return nil
}

func (r *departmentRepository) List(ctx context.Context) ([]*model.Department, error) {
	query := `
		SELECT id, name, head_doctor_id, created_at, updated_at
		FROM departments
		ORDER BY name ASC
	`
	var departments []*model.Department
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &departments, query); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM departments WHERE name = $1)`

	var exists bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &exists, query, name); err != nil {
		return false, fmt.Errorf("failed to check department name: %w", err)
	}
	return exists, nil
}

func (r *departmentRepository) AddMember(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	query := `
		INSERT INTO department_doctors (department_id, doctor_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.ext(ctx).ExecContext(ctx, query, departmentID, doctorID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add doctor to department: %w", err)
	}
	return nil
}

func (r *departmentRepository) RemoveMember(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	query := `
		DELETE FROM department_doctors
		WHERE department_id = $1 AND doctor_id = $2
	`
	result, err := r.ext(ctx).ExecContext(ctx, query, departmentID, doctorID)
	if err != nil {
		return fmt.Errorf("failed to remove doctor from department: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("department membership", nil)
	}
	return nil
}

func (r *departmentRepository) IsMember(ctx context.Context, departmentID, doctorID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM department_doctors
			WHERE department_id = $1 AND doctor_id = $2
		)
	`
	var isMember bool
	if err := sqlx.GetContext(ctx, r.ext(ctx), &isMember, query, departmentID, doctorID); err != nil {
		return false, fmt.Errorf("failed to check department membership: %w", err)
	}
	return isMember, nil
}

func (r *departmentRepository) ListMembers(ctx context.Context, departmentID uuid.UUID) ([]*model.Doctor, error) {
	query := `
		SELECT d.id, d.name, d.specialization, d.email, d.created_at, d.updated_at
		FROM doctors d
		JOIN department_doctors dd ON dd.doctor_id = d.id
		WHERE dd.department_id = $1
		ORDER BY dd.created_at ASC, d.id ASC
	`
	var doctors []*model.Doctor
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &doctors, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list department members: %w", err)
	}
	return doctors, nil
}

func (r *departmentRepository) CountMembers(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM department_doctors WHERE department_id = $1`

	var count int64
	if err := sqlx.GetContext(ctx, r.ext(ctx), &count, query, departmentID); err != nil {
		return 0, fmt.Errorf("failed to count department members: %w", err)
	}
	return count, nil
}

func (r *departmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Department, error) {
	query := `
		SELECT dep.id, dep.name, dep.head_doctor_id, dep.created_at, dep.updated_at
		FROM departments dep
		JOIN department_doctors dd ON dd.department_id = dep.id
		WHERE dd.doctor_id = $1
		ORDER BY dep.name ASC
	`
	var departments []*model.Department
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &departments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list departments for doctor: %w", err)
	}
	return departments, nil
}

func (r *departmentRepository) RemoveDoctorFromAll(ctx context.Context, doctorID uuid.UUID) error {
	query := `DELETE FROM department_doctors WHERE doctor_id = $1`

	if _, err := r.ext(ctx).ExecContext(ctx, query, doctorID); err != nil {
		return fmt.Errorf("failed to remove doctor from departments: %w", err)
	}
	return nil
}

func (r *departmentRepository) ClearHeadDoctor(ctx context.Context, doctorID uuid.UUID) error {
	query := `
		UPDATE departments
		SET head_doctor_id = NULL, updated_at = $1
		WHERE head_doctor_id = $2
	`
	if _, err := r.ext(ctx).ExecContext(ctx, query, time.Now(), doctorID); err != nil {
		return fmt.Errorf("failed to clear head doctor: %w", err)
	}
	return nil
}
