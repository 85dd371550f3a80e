package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is persisted as an integer. The 0 and 1 values are part
// of the external contract and must not be renumbered.
type AppointmentStatus int

const (
	AppointmentStatusScheduled AppointmentStatus = 0
	AppointmentStatusCompleted AppointmentStatus = 1
	AppointmentStatusCancelled AppointmentStatus = 2
)

// SlotDuration is the fixed length of every appointment.
const SlotDuration = time.Hour

type Appointment struct {
	Base
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	StartTime time.Time         `db:"start_time" json:"start_time"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
}

// EndTime is derived, never stored.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(SlotDuration)
}

// Date returns the start instant truncated to midnight in its own location.
func (a *Appointment) Date() time.Time {
	y, m, d := a.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.StartTime.Location())
}

// TimeSlot returns the catalog representation of the start time, e.g. "09:00".
func (a *Appointment) TimeSlot() string {
	return a.StartTime.Format("15:04")
}

type BookAppointmentRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time `json:"start_time"`
	Notes     *string    `json:"notes"`
}

// AppointmentFilter narrows a patient's appointment listing. Condition is
// "past" (completed) or "future" (scheduled); empty means no status filter.
type AppointmentFilter struct {
	Condition  string
	DoctorName string
}
