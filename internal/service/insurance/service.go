package insurance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/repository"
	apperrors "github.com/hospitalon/hospital-api/pkg/errors"
	"github.com/hospitalon/hospital-api/pkg/logger"
)

type Service struct {
	repo   repository.InsuranceRepository
	tx     repository.TxManager
	logger *logger.Logger
}

func NewService(repo repository.InsuranceRepository, tx repository.TxManager, logger *logger.Logger) *Service {
	return &Service{repo: repo, tx: tx, logger: logger}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Insurance, error) {
	insurance, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance: %w", err)
	}
	return insurance, nil
}

func (s *Service) GetByPolicyNumber(ctx context.Context, policyNumber string) (*model.Insurance, error) {
	insurance, err := s.repo.GetByPolicyNumber(ctx, policyNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance by policy number: %w", err)
	}
	return insurance, nil
}

// IsValid reports whether the policy is still valid at the given time.
func (s *Service) IsValid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	insurance, err := s.repo.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get insurance: %w", err)
	}
	return !insurance.ValidUntil.Before(at), nil
}

// ListExpiring returns policies that expire within the given duration,
// soonest first.
func (s *Service) ListExpiring(ctx context.Context, within time.Duration) ([]*model.Insurance, error) {
	if within <= 0 {
		return nil, apperrors.NewBadRequest("expiry window must be positive", nil)
	}
	return s.repo.ListExpiringBefore(ctx, time.Now().Add(within))
}

// Update changes policy fields. A new policy number must not collide with an
// existing policy.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateInsuranceRequest) (*model.Insurance, error) {
	var updated *model.Insurance

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		insurance, err := s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get insurance: %w", err)
		}

		if req.PolicyNumber != nil && *req.PolicyNumber != insurance.PolicyNumber {
			taken, err := s.repo.ExistsByPolicyNumber(ctx, *req.PolicyNumber)
			if err != nil {
				return fmt.Errorf("failed to check policy number: %w", err)
			}
			if taken {
				return apperrors.NewConflict(
					fmt.Sprintf("insurance policy %s already exists", *req.PolicyNumber), nil)
			}
			insurance.PolicyNumber = *req.PolicyNumber
		}
		if req.Provider != nil {
			insurance.Provider = *req.Provider
		}
		if req.ValidUntil != nil {
			insurance.ValidUntil = *req.ValidUntil
		}

		if err := s.repo.Update(ctx, insurance); err != nil {
			return err
		}
		updated = insurance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("insurance updated", "insurance_id", id.String())
	return updated, nil
}
