package patient

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
	repo            repository.PatientRepository
	insuranceRepo   repository.InsuranceRepository
	appointmentRepo repository.AppointmentRepository
	tx              repository.TxManager
	logger          *logger.Logger
}

func NewService(
	repo repository.PatientRepository,
	insuranceRepo repository.InsuranceRepository,
	appointmentRepo repository.AppointmentRepository,
	tx repository.TxManager,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:            repo,
		insuranceRepo:   insuranceRepo,
		appointmentRepo: appointmentRepo,
		tx:              tx,
		logger:          logger,
	}
}

// Create registers a new patient. Both the email and the name plus birth date
// pair must be unique; the checks and the insert run in one transaction.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Email:     req.Email,
		Gender:    req.Gender,
	}
	if req.BloodGroup != "" {
		bg := model.BloodGroup(req.BloodGroup)
		if !bg.Valid() {
			return nil, apperrors.NewBadRequest(
				fmt.Sprintf("invalid blood group %q", req.BloodGroup), nil)
		}
		patient.BloodGroup = bg
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check patient email: %w", err)
		}
		if taken {
			return apperrors.NewConflict(
				fmt.Sprintf("patient with email %s already exists", req.Email), nil)
		}

		duplicate, err := s.repo.ExistsByNameAndBirthDate(ctx, req.Name, req.BirthDate)
		if err != nil {
			return fmt.Errorf("failed to check patient identity: %w", err)
		}
		if duplicate {
			return apperrors.NewConflict(
				fmt.Sprintf("patient %s with the same birth date already exists", req.Name), nil)
		}

		return s.repo.Create(ctx, patient)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("patient created", "patient_id", patient.ID.String())
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	patient, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Patient, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByBirthDateRange(ctx context.Context, start, end time.Time) ([]*model.Patient, error) {
	if end.Before(start) {
		return nil, apperrors.NewBadRequest("end of birth date range precedes start", nil)
	}
	return s.repo.ListByBirthDateRange(ctx, start, end)
}

// Update applies the provided fields. The email uniqueness check only runs
// when the email actually changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	var updated *model.Patient

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		patient, err := s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}

		if req.Email != nil && *req.Email != patient.Email {
			taken, err := s.repo.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return fmt.Errorf("failed to check patient email: %w", err)
			}
			if taken {
				return apperrors.NewConflict(
					fmt.Sprintf("patient with email %s already exists", *req.Email), nil)
			}
			patient.Email = *req.Email
		}
		if req.Name != nil {
			patient.Name = *req.Name
		}
		if req.Gender != nil {
			patient.Gender = *req.Gender
		}
		if req.BloodGroup != nil {
			bg := model.BloodGroup(*req.BloodGroup)
			if !bg.Valid() {
				return apperrors.NewBadRequest(
					fmt.Sprintf("invalid blood group %q", *req.BloodGroup), nil)
			}
			patient.BloodGroup = bg
		}

		if err := s.repo.Update(ctx, patient); err != nil {
			return err
		}
		updated = patient
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddInsurance creates an insurance policy and links it to the patient in a
// single transaction. A patient can hold at most one policy.
func (s *Service) AddInsurance(ctx context.Context, patientID uuid.UUID, req *model.AddInsuranceRequest) (*model.Insurance, error) {
	insurance := &model.Insurance{
		PolicyNumber: req.PolicyNumber,
		Provider:     req.Provider,
		ValidUntil:   req.ValidUntil,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		patient, err := s.repo.Get(ctx, patientID)
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		if patient.InsuranceID != nil {
			return apperrors.NewInvalidState(
				fmt.Sprintf("patient %s already has an insurance policy", patient.ID), nil)
		}

		taken, err := s.insuranceRepo.ExistsByPolicyNumber(ctx, req.PolicyNumber)
		if err != nil {
			return fmt.Errorf("failed to check policy number: %w", err)
		}
		if taken {
			return apperrors.NewConflict(
				fmt.Sprintf("insurance policy %s already exists", req.PolicyNumber), nil)
		}

		if err := s.insuranceRepo.Create(ctx, insurance); err != nil {
			return err
		}
		patient.InsuranceID = &insurance.ID
		return s.repo.Update(ctx, patient)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("insurance added",
		"patient_id", patientID.String(),
		"insurance_id", insurance.ID.String(),
	)
	return insurance, nil
}

// RemoveInsurance unlinks and deletes the patient's policy. The policy row is
// removed because no other patient may reference it.
func (s *Service) RemoveInsurance(ctx context.Context, patientID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		patient, err := s.repo.Get(ctx, patientID)
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		if patient.InsuranceID == nil {
			return apperrors.NewInvalidState(
				fmt.Sprintf("patient %s has no insurance policy", patient.ID), nil)
		}

		insuranceID := *patient.InsuranceID
		patient.InsuranceID = nil
		if err := s.repo.Update(ctx, patient); err != nil {
			return err
		}
		return s.insuranceRepo.Delete(ctx, insuranceID)
	})
}

func (s *Service) GetInsurance(ctx context.Context, patientID uuid.UUID) (*model.Insurance, error) {
	patient, err := s.repo.Get(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if patient.InsuranceID == nil {
		return nil, apperrors.NewNotFound("insurance", nil)
	}
	return s.insuranceRepo.Get(ctx, *patient.InsuranceID)
}

// Delete removes a patient with no appointments. Appointment history blocks
// deletion rather than cascading; the patient's insurance policy, when
// present, is removed in the same transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		patient, err := s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}

		count, err := s.appointmentRepo.CountByPatient(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count patient appointments: %w", err)
		}
		if count > 0 {
			return apperrors.NewInvalidState(
				fmt.Sprintf("patient %s has %d appointments", id, count), nil)
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if patient.InsuranceID != nil {
			return s.insuranceRepo.Delete(ctx, *patient.InsuranceID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("patient deleted", "patient_id", id.String())
	return nil
}

// Age returns the patient's age in full years at the given reference time.
func Age(birthDate, at time.Time) int {
	years := at.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
