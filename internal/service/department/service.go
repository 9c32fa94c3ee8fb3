package department

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
	repo       repository.DepartmentRepository
	doctorRepo repository.DoctorRepository
	tx         repository.TxManager
	logger     *logger.Logger
}

func NewService(
	repo repository.DepartmentRepository,
	doctorRepo repository.DoctorRepository,
	tx repository.TxManager,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
		tx:         tx,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	department := &model.Department{Name: req.Name}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		taken, err := s.repo.ExistsByName(ctx, req.Name)
		if err != nil {
			return fmt.Errorf("failed to check department name: %w", err)
		}
		if taken {
			return apperrors.NewConflict(
				fmt.Sprintf("department %s already exists", req.Name), nil)
		}
		return s.repo.Create(ctx, department)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", department.ID.String())
	return department, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	department, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*model.Department, error) {
	department, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get department by name: %w", err)
	}
	return department, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Department, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDepartmentRequest) (*model.Department, error) {
	var updated *model.Department

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		department, err := s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}

		if req.Name != department.Name {
			taken, err := s.repo.ExistsByName(ctx, req.Name)
			if err != nil {
				return fmt.Errorf("failed to check department name: %w", err)
			}
			if taken {
				return apperrors.NewConflict(
					fmt.Sprintf("department %s already exists", req.Name), nil)
			}
			department.Name = req.Name
		}

		if err := s.repo.Update(ctx, department); err != nil {
			return err
		}
		updated = department
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddDoctor adds a doctor to the department's roster.
func (s *Service) AddDoctor(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, departmentID); err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}
		if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
			return fmt.Errorf("failed to verify doctor: %w", err)
		}

		member, err := s.repo.IsMember(ctx, departmentID, doctorID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if member {
			return apperrors.NewConflict(
				fmt.Sprintf("doctor %s is already in department %s", doctorID, departmentID), nil)
		}
		return s.repo.AddMember(ctx, departmentID, doctorID)
	})
}

// RemoveDoctor takes a doctor off the roster. The head doctor cannot be
// removed while still holding the headship.
func (s *Service) RemoveDoctor(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		department, err := s.repo.Get(ctx, departmentID)
		if err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}

		member, err := s.repo.IsMember(ctx, departmentID, doctorID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if !member {
			return apperrors.NewInvalidState(
				fmt.Sprintf("doctor %s is not in department %s", doctorID, departmentID), nil)
		}
		if department.HeadDoctorID != nil && *department.HeadDoctorID == doctorID {
			return apperrors.NewInvalidState(
				fmt.Sprintf("doctor %s heads department %s and cannot be removed", doctorID, departmentID), nil)
		}
		return s.repo.RemoveMember(ctx, departmentID, doctorID)
	})
}

// AssignHead makes a member doctor the department head.
func (s *Service) AssignHead(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		department, err := s.repo.Get(ctx, departmentID)
		if err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}
		if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
			return fmt.Errorf("failed to verify doctor: %w", err)
		}

		member, err := s.repo.IsMember(ctx, departmentID, doctorID)
		if err != nil {
			return fmt.Errorf("failed to check membership: %w", err)
		}
		if !member {
			return apperrors.NewInvalidState(
				fmt.Sprintf("doctor %s must join department %s before heading it", doctorID, departmentID), nil)
		}

		department.HeadDoctorID = &doctorID
		return s.repo.Update(ctx, department)
	})
}

// ClearHead removes the department's head assignment, leaving the doctor on
// the roster.
func (s *Service) ClearHead(ctx context.Context, departmentID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		department, err := s.repo.Get(ctx, departmentID)
		if err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}
		if department.HeadDoctorID == nil {
			return apperrors.NewInvalidState(
				fmt.Sprintf("department %s has no head doctor", departmentID), nil)
		}

		department.HeadDoctorID = nil
		return s.repo.Update(ctx, department)
	})
}

func (s *Service) ListDoctors(ctx context.Context, departmentID uuid.UUID) ([]*model.Doctor, error) {
	if _, err := s.repo.Get(ctx, departmentID); err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return s.repo.ListMembers(ctx, departmentID)
}

// Delete removes an empty department. Departments with members must be
// emptied first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Get(ctx, id); err != nil {
			return fmt.Errorf("failed to get department: %w", err)
		}

		count, err := s.repo.CountMembers(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count department members: %w", err)
		}
		if count > 0 {
			return apperrors.NewInvalidState(
				fmt.Sprintf("department %s still has %d doctors", id, count), nil)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("department deleted", "department_id", id.String())
	return nil
}
