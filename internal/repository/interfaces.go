package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/model"
)

// TxManager runs a function inside a single serializable transaction.
// Repository calls made with the context passed to fn join that transaction,
// which makes check-then-act sequences atomic with respect to other callers.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
		ListByBirthDateRange(ctx context.Context, start, end time.Time) ([]*model.Patient, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		ExistsByNameAndBirthDate(ctx context.Context, name string, birthDate time.Time) (bool, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
		ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
	}

	DepartmentRepository interface {
		Create(ctx context.Context, department *model.Department) error
		Get(ctx context.Context, id uuid.UUID) (*model.Department, error)
		GetByName(ctx context.Context, name string) (*model.Department, error)
		Update(ctx context.Context, department *model.Department) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Department, error)
		ExistsByName(ctx context.Context, name string) (bool, error)
		AddMember(ctx context.Context, departmentID, doctorID uuid.UUID) error
		RemoveMember(ctx context.Context, departmentID, doctorID uuid.UUID) error
		IsMember(ctx context.Context, departmentID, doctorID uuid.UUID) (bool, error)
		ListMembers(ctx context.Context, departmentID uuid.UUID) ([]*model.Doctor, error)
		CountMembers(ctx context.Context, departmentID uuid.UUID) (int64, error)
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Department, error)
		RemoveDoctorFromAll(ctx context.Context, doctorID uuid.UUID) error
		ClearHeadDoctor(ctx context.Context, doctorID uuid.UUID) error
	}

	InsuranceRepository interface {
		Create(ctx context.Context, insurance *model.Insurance) error
		Get(ctx context.Context, id uuid.UUID) (*model.Insurance, error)
		GetByPolicyNumber(ctx context.Context, policyNumber string) (*model.Insurance, error)
		Update(ctx context.Context, insurance *model.Insurance) error
		Delete(ctx context.Context, id uuid.UUID) error
		ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error)
		ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*model.Insurance, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
		ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.Appointment, error)
		ListByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error)
		ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, after time.Time) ([]*model.Appointment, error)
		CountByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int64, error)
		CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error)
		CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
		// FindInConflictWindow returns the doctor's appointments whose time
		// lies strictly inside (from, to).
		FindInConflictWindow(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
		// LockDoctor serializes concurrent bookings for one doctor for the
		// remainder of the surrounding transaction.
		LockDoctor(ctx context.Context, doctorID uuid.UUID) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
