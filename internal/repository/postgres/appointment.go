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

const appointmentColumns = `id, patient_id, doctor_id, appointment_time, reason, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_time, reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.ext(ctx).ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.AppointmentTime,
		appointment.Reason,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := sqlx.GetContext(ctx, r.ext(ctx), &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_id = $1, appointment_time = $2, reason = $3, updated_at = $4
		WHERE id = $5
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.ext(ctx).ExecContext(ctx, query,
		appointment.DoctorID,
		appointment.AppointmentTime,
		appointment.Reason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1`

	result, err := r.ext(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_time DESC, created_at ASC, id ASC
	`
	var appointments []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list appointments by patient: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY appointment_time ASC, created_at ASC, id ASC
	`
	var appointments []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list appointments by doctor: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appointment_time BETWEEN $1 AND $2
		ORDER BY appointment_time ASC, created_at ASC, id ASC
	`
	var appointments []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to list appointments by time range: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND appointment_time BETWEEN $2 AND $3
		ORDER BY appointment_time ASC, created_at ASC, id ASC
	`
	var appointments []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, doctorID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments by time range: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, after time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1 AND appointment_time > $2
		ORDER BY appointment_time ASC, created_at ASC, id ASC
	`
	var appointments []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, patientID, after); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND appointment_time BETWEEN $2 AND $3
	`
	var count int64
	if err := sqlx.GetContext(ctx, r.ext(ctx), &count, query, doctorID, start, end); err != nil {
		return 0, fmt.Errorf("failed to count doctor appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`

	var count int64
	if err := sqlx.GetContext(ctx, r.ext(ctx), &count, query, patientID); err != nil {
		return 0, fmt.Errorf("failed to count patient appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`

	var count int64
	if err := sqlx.GetContext(ctx, r.ext(ctx), &count, query, doctorID); err != nil {
		return 0, fmt.Errorf("failed to count doctor appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) FindInConflictWindow(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	// Open interval: appointments exactly at the window edges cannot overlap
	// the candidate slot.
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_time > $2
		AND appointment_time < $3
		ORDER BY appointment_time ASC, created_at ASC, id ASC
	`
	var appointments []*model.Appointment
	if err := sqlx.SelectContext(ctx, r.ext(ctx), &appointments, query, doctorID, from, to); err != nil {
		return nil, fmt.Errorf("failed to find conflicting appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) LockDoctor(ctx context.Context, doctorID uuid.UUID) error {
	// Advisory lock scoped to the surrounding transaction; released on
	// commit or rollback.
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	if _, err := r.ext(ctx).ExecContext(ctx, query, doctorID.String()); err != nil {
		return fmt.Errorf("failed to lock doctor schedule: %w", err)
	}
	return nil
}
