package model

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID `db:"doctor_id" json:"doctor_id"`
	AppointmentTime time.Time `db:"appointment_time" json:"appointment_time"`
	Reason          string    `db:"reason" json:"reason,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type ScheduleAppointmentRequest struct {
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
	Reason          string    `json:"reason" binding:"max=500"`
}

type RescheduleAppointmentRequest struct {
	AppointmentTime time.Time  `json:"appointment_time" binding:"required"`
	DoctorID        *uuid.UUID `json:"doctor_id"`
	Reason          *string    `json:"reason"`
}
