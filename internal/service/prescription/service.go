package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/internal/service/appointment"
)

var (
	ErrNotFound      = errors.New("prescription not found")
	ErrAlreadyExists = errors.New("prescription already exists for this appointment")
)

type Service struct {
	repo         repository.PrescriptionRepository
	appointments *appointment.Service
}

func NewService(repo repository.PrescriptionRepository, appointments *appointment.Service) *Service {
	return &Service{repo: repo, appointments: appointments}
}

// Save records a prescription and marks the appointment Completed. The
// appointment must exist and still be Scheduled; anything else is rejected
// before the prescription row is written, so a failed save leaves nothing
// behind.
func (s *Service) Save(ctx context.Context, req *model.SavePrescriptionRequest) (*model.Prescription, error) {
	apt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return nil, appointment.ErrNotScheduled
	}

	p := &model.Prescription{
		AppointmentID: req.AppointmentID,
		PatientName:   req.PatientName,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		DoctorNotes:   req.DoctorNotes,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to save prescription: %w", err)
	}

	if err := s.appointments.MarkCompleted(ctx, req.AppointmentID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Prescription, error) {
	p, err := s.repo.GetByAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return p, nil
}
