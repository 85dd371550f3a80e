package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SameepSkillup/clinic-api/internal/email"
	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/internal/service/schedule"
	"github.com/SameepSkillup/clinic-api/pkg/lock"
	"github.com/SameepSkillup/clinic-api/pkg/metrics"
)

// Booking outcomes. Validation failures and the two ways of losing a race
// are a closed set; handlers map them onto 400/404/409.
var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPastTime        = errors.New("appointment time must be in the future")
	ErrSlotUnavailable = errors.New("slot is not available")
	// ErrSlotTaken means the booking lost the race at the reservation step.
	// Recoverable: the caller should refetch availability and retry.
	ErrSlotTaken = errors.New("slot was just booked by another request")

	ErrNotFound     = errors.New("appointment not found")
	ErrNotOwner     = errors.New("appointment belongs to another patient")
	ErrNotScheduled = errors.New("appointment is no longer scheduled")
)

// DoctorGetter is the slice of the doctor store the validator needs.
type DoctorGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
}

// PatientGetter resolves patient contact details for notifications.
type PatientGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
}

type Service struct {
	repo     repository.AppointmentRepository
	doctors  DoctorGetter
	patients PatientGetter
	calendar *schedule.Calendar
	locker   lock.Locker
	notifier email.Service
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	doctors DoctorGetter,
	patients PatientGetter,
	calendar *schedule.Calendar,
	locker lock.Locker,
	notifier email.Service,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Service {
	return &Service{
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		calendar: calendar,
		locker:   locker,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Availability returns the free catalog slots for the doctor on the day.
func (s *Service) Availability(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]string, error) {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	if s.metrics != nil {
		s.metrics.AvailabilityQueries.Inc()
	}
	return s.calendar.Availability(ctx, doctorID, day)
}

// Validate applies the admission rules in order: the doctor must exist, the
// start instant must be in the future, and the slot must be free. The first
// failing rule wins, so a nonexistent doctor is never reported as a slot
// conflict.
func (s *Service) Validate(ctx context.Context, doctorID uuid.UUID, start time.Time) error {
	if _, err := s.doctors.Get(ctx, doctorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDoctorNotFound
		}
		return fmt.Errorf("failed to load doctor: %w", err)
	}

	if !start.After(time.Now()) {
		return ErrPastTime
	}

	free, err := s.calendar.Availability(ctx, doctorID, start)
	if err != nil {
		return err
	}
	slot := start.Format("15:04")
	for _, f := range free {
		if f == slot {
			return nil
		}
	}
	return ErrSlotUnavailable
}

// Book admits or rejects a booking atomically with respect to concurrent
// attempts on the same slot. Validate-then-insert runs inside a critical
// section keyed by (doctor, date); the storage uniqueness constraint on
// (doctor, slot) backstops the lock, so even a lost lock cannot produce a
// double booking. For N concurrent attempts on one slot exactly one wins;
// the rest see ErrSlotUnavailable or ErrSlotTaken.
func (s *Service) Book(ctx context.Context, patientID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	var created *model.Appointment

	// Stray seconds in the request would slip past slot validation yet
	// persist off the slot grid, weakening the uniqueness backstop.
	start := schedule.Normalize(req.StartTime)

	key := bookingKey(req.DoctorID, start)
	err := s.locker.WithLock(ctx, key, func(lockCtx context.Context) error {
		if err := s.Validate(lockCtx, req.DoctorID, start); err != nil {
			return err
		}

		apt := &model.Appointment{
			DoctorID:  req.DoctorID,
			PatientID: patientID,
			StartTime: start,
			Status:    model.AppointmentStatusScheduled,
			Notes:     req.Notes,
		}
		if err := s.repo.Create(lockCtx, apt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrSlotTaken
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		created = apt
		return nil
	})

	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			err = ErrSlotTaken
		}
		s.countBooking(err)
		return nil, err
	}

	s.countBooking(nil)
	s.notifyBooked(created)
	return created, nil
}

// Update reschedules or annotates an existing appointment. It is an
// id-addressed transition guarded by existence and ownership; the slot race
// machinery is not needed, though the uniqueness backstop still rejects a
// move onto an occupied slot.
func (s *Service) Update(ctx context.Context, patientID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.owned(ctx, patientID, id)
	if err != nil {
		return nil, err
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return nil, ErrNotScheduled
	}

	if req.StartTime != nil {
		start := schedule.Normalize(*req.StartTime)
		if !start.After(time.Now()) {
			return nil, ErrPastTime
		}
		if !schedule.InCatalog(start.Format("15:04")) {
			return nil, ErrSlotUnavailable
		}
		apt.StartTime = start
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlotTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

// Cancel moves a scheduled appointment to Cancelled.
func (s *Service) Cancel(ctx context.Context, patientID, id uuid.UUID) error {
	apt, err := s.owned(ctx, patientID, id)
	if err != nil {
		return err
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return ErrNotScheduled
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.notifyCancelled(apt)
	return nil
}

// Get returns an appointment by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// DoctorDay lists a doctor's appointments for a day, optionally narrowed by
// patient name substring.
func (s *Service) DoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time, patientName string) ([]*model.Appointment, error) {
	return s.repo.ListForDoctorDay(ctx, doctorID, day, patientName)
}

// ForPatient lists a patient's appointments, applying whichever filter
// criteria are present: condition ("past" = completed, "future" = scheduled)
// and doctor name substring.
func (s *Service) ForPatient(ctx context.Context, patientID uuid.UUID, filter model.AppointmentFilter) ([]*model.Appointment, error) {
	status, hasStatus, err := conditionStatus(filter.Condition)
	if err != nil {
		return nil, err
	}

	switch {
	case filter.DoctorName != "" && hasStatus:
		byDoctor, err := s.repo.SearchForPatientByDoctorName(ctx, patientID, filter.DoctorName)
		if err != nil {
			return nil, err
		}
		matched := make([]*model.Appointment, 0, len(byDoctor))
		for _, apt := range byDoctor {
			if apt.Status == status {
				matched = append(matched, apt)
			}
		}
		return matched, nil
	case filter.DoctorName != "":
		return s.repo.SearchForPatientByDoctorName(ctx, patientID, filter.DoctorName)
	case hasStatus:
		return s.repo.ListForPatientByStatus(ctx, patientID, status)
	default:
		return s.repo.ListForPatient(ctx, patientID)
	}
}

// MarkCompleted flips a scheduled appointment to Completed. Used by the
// prescription flow once the doctor has seen the patient.
func (s *Service) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return ErrNotScheduled
	}
	apt.Status = model.AppointmentStatusCompleted
	if err := s.repo.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to complete appointment: %w", err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, patientID, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.PatientID != patientID {
		return nil, ErrNotOwner
	}
	return apt, nil
}

func (s *Service) countBooking(outcome error) {
	if s.metrics == nil {
		return
	}
	label := "booked"
	switch {
	case outcome == nil:
	case errors.Is(outcome, ErrSlotTaken):
		label = "conflict"
		s.metrics.BookingConflicts.Inc()
	case errors.Is(outcome, ErrDoctorNotFound),
		errors.Is(outcome, ErrPastTime),
		errors.Is(outcome, ErrSlotUnavailable):
		label = "rejected"
	default:
		label = "error"
	}
	s.metrics.BookingAttempts.WithLabelValues(label).Inc()
}

// notifyBooked emails the patient a confirmation. Best effort: a mail
// failure is logged, never surfaced to the booking caller.
func (s *Service) notifyBooked(apt *model.Appointment) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		patient, err := s.patients.Get(ctx, apt.PatientID)
		if err != nil {
			s.logger.Warn().Err(err).Stringer("appointment_id", apt.ID).Msg("skipping booking confirmation")
			return
		}
		doctor, err := s.doctors.Get(ctx, apt.DoctorID)
		if err != nil {
			s.logger.Warn().Err(err).Stringer("appointment_id", apt.ID).Msg("skipping booking confirmation")
			return
		}
		if err := s.notifier.SendBookingConfirmation(ctx, patient.Email, doctor.Name, apt.StartTime); err != nil {
			s.logger.Warn().Err(err).Stringer("appointment_id", apt.ID).Msg("failed to send booking confirmation")
		}
	}()
}

func (s *Service) notifyCancelled(apt *model.Appointment) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		patient, err := s.patients.Get(ctx, apt.PatientID)
		if err != nil {
			s.logger.Warn().Err(err).Stringer("appointment_id", apt.ID).Msg("skipping cancellation notice")
			return
		}
		if err := s.notifier.SendCancellation(ctx, patient.Email, apt.StartTime); err != nil {
			s.logger.Warn().Err(err).Stringer("appointment_id", apt.ID).Msg("failed to send cancellation notice")
		}
	}()
}

func conditionStatus(condition string) (model.AppointmentStatus, bool, error) {
	switch condition {
	case "":
		return 0, false, nil
	case "past":
		return model.AppointmentStatusCompleted, true, nil
	case "future":
		return model.AppointmentStatusScheduled, true, nil
	default:
		return 0, false, fmt.Errorf("unknown condition %q", condition)
	}
}

// bookingKey scopes the critical section to one doctor's day; bookings for
// other doctors or other days never contend for it.
func bookingKey(doctorID uuid.UUID, start time.Time) string {
	return doctorID.String() + ":" + start.Format("2006-01-02")
}
