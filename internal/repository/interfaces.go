package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/model"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint: a second Scheduled appointment for the same (doctor,
	// slot), a doctor email already registered, a patient email or phone
	// already registered.
	ErrDuplicate = errors.New("already exists")
)

type AppointmentRepository interface {
	// Create persists a new appointment. ErrDuplicate signals that another
	// Scheduled appointment already occupies the (doctor, start time) pair.
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListScheduledForDoctorDay returns the Scheduled appointments for the
	// doctor on the calendar day containing day, in start-time order.
	ListScheduledForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]*model.Appointment, error)
	// ListForDoctorDay returns all appointments for the day, optionally
	// narrowed to patients whose name contains patientName.
	ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time, patientName string) ([]*model.Appointment, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	ListForPatientByStatus(ctx context.Context, patientID uuid.UUID, status model.AppointmentStatus) ([]*model.Appointment, error)
	// SearchForPatientByDoctorName filters a patient's appointments to
	// doctors whose name contains doctorName, case-insensitive.
	SearchForPatientByDoctorName(ctx context.Context, patientID uuid.UUID, doctorName string) ([]*model.Appointment, error)
	DeleteAllForDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*model.Doctor, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByEmail(ctx context.Context, email string) (*model.Patient, error)
	// ExistsByEmailOrPhone backs the registration uniqueness rule.
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
}

type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type PrescriptionRepository interface {
	Create(ctx context.Context, p *model.Prescription) error
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*model.Prescription, error)
}
