package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/internal/repository"
	apperrors "github.com/hospitalon/hospital-api/pkg/errors"
	"github.com/hospitalon/hospital-api/pkg/logger"
	"github.com/hospitalon/hospital-api/pkg/metrics"
)

// Notifier delivers booking confirmations to the participants. Failures are
// logged and never fail the booking itself.
type Notifier interface {
	AppointmentScheduled(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) error
	AppointmentCancelled(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) error
}

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	outboxRepo  repository.OutboxRepository
	tx          repository.TxManager
	notifier    Notifier
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	outboxRepo repository.OutboxRepository,
	tx repository.TxManager,
	notifier Notifier,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		outboxRepo:  outboxRepo,
		tx:          tx,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
	}
}

// Schedule books a new appointment. The existence checks, the availability
// check and the insert run in one transaction under a per-doctor lock, so two
// concurrent bookings for overlapping slots cannot both commit.
func (s *Service) Schedule(ctx context.Context, req *model.ScheduleAppointmentRequest) (*model.Appointment, error) {
	var (
		apt     *model.Appointment
		patient *model.Patient
		doctor  *model.Doctor
	)

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		patient, err = s.patientRepo.Get(ctx, req.PatientID)
		if err != nil {
			return fmt.Errorf("failed to verify patient: %w", err)
		}

		doctor, err = s.doctorRepo.Get(ctx, req.DoctorID)
		if err != nil {
			return fmt.Errorf("failed to verify doctor: %w", err)
		}

		if err := s.repo.LockDoctor(ctx, doctor.ID); err != nil {
			return err
		}

		available, err := s.IsDoctorAvailable(ctx, doctor.ID, req.AppointmentTime, nil)
		if err != nil {
			return err
		}
		if !available {
			s.metrics.SchedulingConflicts.Inc()
			return apperrors.NewConflict(
				fmt.Sprintf("doctor %s is not available at %s", doctor.ID, req.AppointmentTime.Format(time.RFC3339)), nil)
		}

		apt = &model.Appointment{
			PatientID:       patient.ID,
			DoctorID:        doctor.ID,
			AppointmentTime: req.AppointmentTime,
			Reason:          req.Reason,
		}
		if err := s.repo.Create(ctx, apt); err != nil {
			return err
		}

		return s.writeOutboxEvent(ctx, "appointment.created", apt)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AppointmentsScheduled.Inc()
	s.logger.Info("appointment scheduled",
		"appointment_id", apt.ID.String(),
		"doctor_id", doctor.ID.String(),
		"patient_id", patient.ID.String(),
	)

	if s.notifier != nil {
		if err := s.notifier.AppointmentScheduled(ctx, patient, doctor, apt); err != nil {
			s.logger.Error(err, "failed to send booking confirmation", "appointment_id", apt.ID.String())
		}
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// Reschedule moves an appointment to a new time and, optionally, a new
// doctor. The conflict check is re-run (excluding the appointment itself)
// only when the effective doctor or time actually changes; all field updates
// commit atomically.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	var updated *model.Appointment

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		apt, err := s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		newDoctorID := apt.DoctorID
		if req.DoctorID != nil {
			newDoctorID = *req.DoctorID
		}
		doctorChanged := newDoctorID != apt.DoctorID
		timeChanged := !req.AppointmentTime.Equal(apt.AppointmentTime)

		if doctorChanged {
			if _, err := s.doctorRepo.Get(ctx, newDoctorID); err != nil {
				return fmt.Errorf("failed to verify doctor: %w", err)
			}
		}

		if doctorChanged || timeChanged {
			if err := s.repo.LockDoctor(ctx, newDoctorID); err != nil {
				return err
			}
			available, err := s.IsDoctorAvailable(ctx, newDoctorID, req.AppointmentTime, &apt.ID)
			if err != nil {
				return err
			}
			if !available {
				s.metrics.SchedulingConflicts.Inc()
				return apperrors.NewConflict(
					fmt.Sprintf("doctor %s is not available at %s", newDoctorID, req.AppointmentTime.Format(time.RFC3339)), nil)
			}
		}

		apt.DoctorID = newDoctorID
		apt.AppointmentTime = req.AppointmentTime
		if req.Reason != nil {
			apt.Reason = *req.Reason
		}

		if err := s.repo.Update(ctx, apt); err != nil {
			return err
		}
		updated = apt

		return s.writeOutboxEvent(ctx, "appointment.updated", apt)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("appointment rescheduled", "appointment_id", updated.ID.String())
	return updated, nil
}

// Cancel deletes a future appointment. Appointments whose time has already
// passed cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	var (
		apt     *model.Appointment
		patient *model.Patient
		doctor  *model.Doctor
	)

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		apt, err = s.repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get appointment: %w", err)
		}

		if apt.AppointmentTime.Before(time.Now()) {
			return apperrors.NewInvalidState(
				fmt.Sprintf("cannot cancel past appointment %s", apt.ID), nil)
		}

		patient, err = s.patientRepo.Get(ctx, apt.PatientID)
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		doctor, err = s.doctorRepo.Get(ctx, apt.DoctorID)
		if err != nil {
			return fmt.Errorf("failed to get doctor: %w", err)
		}

		if err := s.repo.Delete(ctx, apt.ID); err != nil {
			return err
		}

		return s.writeOutboxEvent(ctx, "appointment.cancelled", apt)
	})
	if err != nil {
		return err
	}

	s.metrics.AppointmentsCancelled.Inc()
	s.logger.Info("appointment cancelled", "appointment_id", id.String())

	if s.notifier != nil {
		if err := s.notifier.AppointmentCancelled(ctx, patient, doctor, apt); err != nil {
			s.logger.Error(err, "failed to send cancellation notice", "appointment_id", id.String())
		}
	}
	return nil
}

// ListByPatient returns the patient's appointments, most recent first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// ListByDoctor returns the doctor's appointments, soonest first.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("failed to verify doctor: %w", err)
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	return s.repo.ListByTimeRange(ctx, start, end)
}

func (s *Service) ListTodayByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, fmt.Errorf("failed to verify doctor: %w", err)
	}
	start, end := dayBounds(time.Now())
	return s.repo.ListByDoctorAndTimeRange(ctx, doctorID, start, end)
}

func (s *Service) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, fmt.Errorf("failed to verify patient: %w", err)
	}
	return s.repo.ListUpcomingByPatient(ctx, patientID, time.Now())
}

// CountByDoctorAndDateRange counts a doctor's appointments between the start
// of startDate and the end of endDate.
func (s *Service) CountByDoctorAndDateRange(ctx context.Context, doctorID uuid.UUID, startDate, endDate time.Time) (int64, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return 0, fmt.Errorf("failed to verify doctor: %w", err)
	}
	start, _ := dayBounds(startDate)
	_, end := dayBounds(endDate)
	return s.repo.CountByDoctorAndTimeRange(ctx, doctorID, start, end)
}

func (s *Service) writeOutboxEvent(ctx context.Context, eventType string, apt *model.Appointment) error {
	payload, err := json.Marshal(apt)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment event: %w", err)
	}
	return s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	})
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
