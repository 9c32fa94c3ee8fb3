package model

import (
	"time"

	"github.com/google/uuid"
)

type BloodGroup string

const (
	BloodGroupAPositive  BloodGroup = "A+"
	BloodGroupANegative  BloodGroup = "A-"
	BloodGroupBPositive  BloodGroup = "B+"
	BloodGroupBNegative  BloodGroup = "B-"
	BloodGroupABPositive BloodGroup = "AB+"
	BloodGroupABNegative BloodGroup = "AB-"
	BloodGroupOPositive  BloodGroup = "O+"
	BloodGroupONegative  BloodGroup = "O-"
)

// Valid reports whether the blood group is one of the known types.
func (b BloodGroup) Valid() bool {
	switch b {
	case BloodGroupAPositive, BloodGroupANegative,
		BloodGroupBPositive, BloodGroupBNegative,
		BloodGroupABPositive, BloodGroupABNegative,
		BloodGroupOPositive, BloodGroupONegative:
		return true
	}
	return false
}

type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	BirthDate   time.Time  `db:"birth_date" json:"birth_date"`
	Email       string     `db:"email" json:"email"`
	Gender      string     `db:"gender" json:"gender,omitempty"`
	BloodGroup  BloodGroup `db:"blood_group" json:"blood_group,omitempty"`
	InsuranceID *uuid.UUID `db:"insurance_id" json:"insurance_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type CreatePatientRequest struct {
	Name       string    `json:"name" binding:"required,max=100"`
	BirthDate  time.Time `json:"birth_date" binding:"required"`
	Email      string    `json:"email" binding:"required,email"`
	Gender     string    `json:"gender"`
	BloodGroup string    `json:"blood_group" binding:"omitempty,bloodgroup"`
}

type UpdatePatientRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Gender     *string `json:"gender"`
	BloodGroup *string `json:"blood_group" binding:"omitempty,bloodgroup"`
}
