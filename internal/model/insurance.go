package model

import (
	"time"

	"github.com/google/uuid"
)

// Insurance is owned by at most one patient; the patient record holds the
// reference, the policy itself does not point back.
type Insurance struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PolicyNumber string    `db:"policy_number" json:"policy_number"`
	Provider     string    `db:"provider" json:"provider"`
	ValidUntil   time.Time `db:"valid_until" json:"valid_until"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type AddInsuranceRequest struct {
	PolicyNumber string    `json:"policy_number" binding:"required,max=50"`
	Provider     string    `json:"provider" binding:"required,max=100"`
	ValidUntil   time.Time `json:"valid_until" binding:"required"`
}

type UpdateInsuranceRequest struct {
	PolicyNumber *string    `json:"policy_number"`
	Provider     *string    `json:"provider"`
	ValidUntil   *time.Time `json:"valid_until"`
}
