package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/hospitalon/hospital-api/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

type doctorRepository struct {
	BaseRepository
}

type departmentRepository struct {
	BaseRepository
}

type insuranceRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	BaseRepository
}

type outboxRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{NewBaseRepository(db)}
}

func NewDepartmentRepository(db *sqlx.DB) repository.DepartmentRepository {
	return &departmentRepository{NewBaseRepository(db)}
}

func NewInsuranceRepository(db *sqlx.DB) repository.InsuranceRepository {
	return &insuranceRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{NewBaseRepository(db)}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}
