package model

import (
	"time"

	"github.com/google/uuid"
)

// Department groups doctors through a many-to-many membership. The head
// doctor, when set, must be one of the members.
type Department struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	HeadDoctorID *uuid.UUID `db:"head_doctor_id" json:"head_doctor_id,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type UpdateDepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}
