package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/repository"
	apperrors "github.com/hospitalon/hospital-api/pkg/errors"
	"github.com/hospitalon/hospital-api/pkg/logger"
)

type Service struct {
	repo            repository.DoctorRepository
	departmentRepo  repository.DepartmentRepository
	appointmentRepo repository.AppointmentRepository
	tx              repository.TxManager
	logger          *logger.Logger
}

func NewService(
	repo repository.DoctorRepository,
	departmentRepo repository.DepartmentRepository,
	appointmentRepo repository.AppointmentRepository,
	tx repository.TxManager,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:            repo,
		departmentRepo:  departmentRepo,
		appointmentRepo: appointmentRepo,
		tx:              tx,
		logger:          logger,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		Email:          req.Email,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check doctor email: %w", err)
		}
		if taken {
			return apperrors.NewConflict(
				fmt.Sprintf("doctor with email %s already exists", req.Email), nil)
		}
		return s.repo.Create(ctx, doctor)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("doctor created", "doctor_id", doctor.ID.String())
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	doctor, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return doctor, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error) {
	if specialization == "" {
		return nil, apperrors.NewBadRequest("specialization cannot be empty", nil)
	}
	return s.repo.ListBySpecialization(ctx, specialization)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	var updated *model.Doctor

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		doctor, err := s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get doctor: %w", err)
		}

		if req.Email != nil && *req.Email != doctor.Email {
			taken, err := s.repo.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return fmt.Errorf("failed to check doctor email: %w", err)
			}
			if taken {
				return apperrors.NewConflict(
					fmt.Sprintf("doctor with email %s already exists", *req.Email), nil)
			}
			doctor.Email = *req.Email
		}
		if req.Name != nil {
			doctor.Name = *req.Name
		}
		if req.Specialization != nil {
			doctor.Specialization = *req.Specialization
		}

		if err := s.repo.Update(ctx, doctor); err != nil {
			return err
		}
		updated = doctor
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Departments lists the departments the doctor belongs to.
func (s *Service) Departments(ctx context.Context, id uuid.UUID) ([]*model.Department, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return s.departmentRepo.ListForDoctor(ctx, id)
}

// Delete removes a doctor with no appointments. Department memberships and
// any headship are cleared in the same transaction so no department is left
// pointing at a missing doctor.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return fmt.Errorf("failed to get doctor: %w", err)
		}

		count, err := s.appointmentRepo.CountByDoctor(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count doctor appointments: %w", err)
		}
		if count > 0 {
			return apperrors.NewInvalidState(
				fmt.Sprintf("doctor %s has %d appointments", id, count), nil)
		}

		if err := s.departmentRepo.ClearHeadDoctor(ctx, id); err != nil {
			return fmt.Errorf("failed to clear department headships: %w", err)
		}
		if err := s.departmentRepo.RemoveDoctorFromAll(ctx, id); err != nil {
			return fmt.Errorf("failed to remove department memberships: %w", err)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("doctor deleted", "doctor_id", id.String())
	return nil
}
