package model

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Specialization string    `db:"specialization" json:"specialization,omitempty"`
	Email          string    `db:"email" json:"email"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Specialization string `json:"specialization" binding:"max=100"`
	Email          string `json:"email" binding:"required,email"`
}

type UpdateDoctorRequest struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	Email          *string `json:"email" binding:"omitempty,email"`
}
