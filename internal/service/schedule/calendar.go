// Package schedule computes bookable slots for a doctor on a given day.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SameepSkillup/clinic-api/internal/model"
)

// Catalog is the daily slot grid, identical for every doctor. There is no
// 13:00 entry; the clinic closes over midday.
var Catalog = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}

// AppointmentLister is the read-only view the calendar needs of the
// appointment store.
type AppointmentLister interface {
	ListScheduledForDoctorDay(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]*model.Appointment, error)
}

type Calendar struct {
	appointments AppointmentLister
}

func NewCalendar(appointments AppointmentLister) *Calendar {
	return &Calendar{appointments: appointments}
}

// Availability returns the catalog slots not occupied by a Scheduled
// appointment for the doctor on the given day, in catalog order. A doctor
// with no bookings gets the full catalog; a fully booked doctor gets an
// empty (non-nil) slice.
func (c *Calendar) Availability(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]string, error) {
	booked, err := c.appointments.ListScheduledForDoctorDay(ctx, doctorID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked appointments: %w", err)
	}

	occupied := make(map[string]struct{}, len(booked))
	for _, apt := range booked {
		occupied[apt.TimeSlot()] = struct{}{}
	}

	free := make([]string, 0, len(Catalog))
	for _, slot := range Catalog {
		if _, taken := occupied[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free, nil
}

// InCatalog reports whether slot ("15:04" form) is a bookable time of day.
func InCatalog(slot string) bool {
	for _, s := range Catalog {
		if s == slot {
			return true
		}
	}
	return false
}

// Normalize drops sub-minute precision from a start instant. Stored starts
// must sit exactly on the slot grid so equal slots compare equal and hash to
// the same uniqueness key.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

// SlotAt pins a catalog slot onto a calendar day, producing the appointment
// start instant in the day's location.
func SlotAt(day time.Time, slot string) (time.Time, error) {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot %q: %w", slot, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
