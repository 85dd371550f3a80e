package schedule_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/service/schedule"
)

// fakeLister returns a canned set of scheduled appointments.
type fakeLister struct {
	appointments []*model.Appointment
}

func (f *fakeLister) ListScheduledForDoctorDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.Appointment, error) {
	return f.appointments, nil
}

func scheduledAt(day time.Time, slot string) *model.Appointment {
	start, err := schedule.SlotAt(day, slot)
	if err != nil {
		panic(err)
	}
	return &model.Appointment{StartTime: start, Status: model.AppointmentStatusScheduled}
}

func TestAvailabilityEmptyDay(t *testing.T) {
	cal := schedule.NewCalendar(&fakeLister{})

	free, err := cal.Availability(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}, free)
}

func TestAvailabilityExcludesBooked(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	lister := &fakeLister{appointments: []*model.Appointment{
		scheduledAt(day, "10:00"),
		scheduledAt(day, "14:00"),
	}}
	cal := schedule.NewCalendar(lister)

	free, err := cal.Availability(context.Background(), uuid.New(), day)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00", "12:00", "15:00", "16:00"}, free)
}

func TestAvailabilityFullyBooked(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	lister := &fakeLister{}
	for _, slot := range schedule.Catalog {
		lister.appointments = append(lister.appointments, scheduledAt(day, slot))
	}
	cal := schedule.NewCalendar(lister)

	free, err := cal.Availability(context.Background(), uuid.New(), day)
	require.NoError(t, err)
	assert.NotNil(t, free)
	assert.Empty(t, free)
}

func TestInCatalog(t *testing.T) {
	assert.True(t, schedule.InCatalog("09:00"))
	assert.True(t, schedule.InCatalog("16:00"))
	assert.False(t, schedule.InCatalog("13:00"), "the clinic closes over midday")
	assert.False(t, schedule.InCatalog("09:30"))
	assert.False(t, schedule.InCatalog("17:00"))
}

func TestNormalize(t *testing.T) {
	ragged := time.Date(2025, 3, 10, 10, 0, 30, 999, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), schedule.Normalize(ragged))

	exact := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, exact, schedule.Normalize(exact))
}

func TestSlotAt(t *testing.T) {
	day := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)

	start, err := schedule.SlotAt(day, "10:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), start)

	_, err = schedule.SlotAt(day, "ten o'clock")
	assert.Error(t, err)
}
