package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/SameepSkillup/clinic-api/internal/config"
)

// Service sends transactional mail to patients. Implementations must be safe
// for concurrent use; callers treat every send as best effort.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to, doctorName string, start time.Time) error
	SendCancellation(ctx context.Context, to string, start time.Time) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(ctx context.Context, to, doctorName string, start time.Time) error {
	body := fmt.Sprintf(
		"Your appointment with Dr. %s is confirmed for %s.",
		doctorName, start.Format("Monday, 2 January 2006 at 15:04"),
	)
	return s.send(ctx, to, "Appointment confirmed", body)
}

func (s *smtpService) SendCancellation(ctx context.Context, to string, start time.Time) error {
	body := fmt.Sprintf(
		"Your appointment on %s has been cancelled.",
		start.Format("Monday, 2 January 2006 at 15:04"),
	)
	return s.send(ctx, to, "Appointment cancelled", body)
}

func (s *smtpService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NewNoopService is used when SMTP is not configured.
func NewNoopService() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) SendBookingConfirmation(context.Context, string, string, time.Time) error {
	return nil
}

func (noopService) SendCancellation(context.Context, string, time.Time) error {
	return nil
}
