package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/hospitalon/hospital-api/internal/config"
	"github.com/hospitalon/hospital-api/internal/model"
	"github.com/hospitalon/hospital-api/pkg/logger"
)

// Service sends appointment notifications over SMTP. It satisfies the
// scheduler's Notifier interface.
type Service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg config.SMTPConfig, logger *logger.Logger) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *Service) AppointmentScheduled(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) error {
	subject := "Appointment confirmation"
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour appointment with Dr. %s is confirmed for %s.\r\n\r\nReason: %s\r\n",
		patient.Name, doctor.Name, apt.AppointmentTime.Format(time.RFC1123), apt.Reason)
	return s.send(ctx, patient.Email, subject, body)
}

func (s *Service) AppointmentCancelled(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Dear %s,\r\n\r\nYour appointment with Dr. %s on %s has been cancelled.\r\n",
		patient.Name, doctor.Name, apt.AppointmentTime.Format(time.RFC1123))
	return s.send(ctx, patient.Email, subject, body)
}

func (s *Service) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	s.logger.Debug("email sent", "to", to, "subject", subject)
	return nil
}
