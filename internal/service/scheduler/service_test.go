package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository/memory"
	"github.com/clinicops/reminderd/internal/service/eventlog"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Stores) {
	t.Helper()
	stores := memory.NewStores()
	recorder := eventlog.NewRecorder(stores.Events, nil, nil)
	svc := NewService(stores.Appointments, stores.Patients, stores.Reminders, recorder, nil).
		WithClock(func() time.Time { return testNow })
	return svc, stores
}

func addPatient(t *testing.T, stores *memory.Stores, active bool) *model.Patient {
	t.Helper()
	p := &model.Patient{
		FullName: "Maria Gomez",
		Phone:    "+15550001111",
		Timezone: "UTC",
		Active:   active,
	}
	require.NoError(t, stores.Patients.Create(context.Background(), p))
	return p
}

func addAppointment(t *testing.T, stores *memory.Stores, p *model.Patient, startAt time.Time) *model.Appointment {
	t.Helper()
	a := &model.Appointment{
		PatientID: p.ID,
		StartAt:   startAt,
		Provider:  "Dr. Chen",
		Location:  "Main Clinic",
		Status:    model.AppointmentStatusScheduled,
		Version:   1,
	}
	require.NoError(t, stores.Appointments.Create(context.Background(), a))
	return a
}

func TestScheduleCreatesOneReminderPerOffset(t *testing.T) {
	svc, stores := newTestService(t)
	ctx := context.Background()

	p := addPatient(t, stores, true)
	a := addAppointment(t, stores, p, testNow.AddDate(0, 0, 10))

	res, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 0, res.Skipped)

	due, err := stores.Reminders.ListInRange(ctx, testNow, testNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, a.StartAt.Add(-7*24*time.Hour), due[0].ScheduledFor)
	assert.Equal(t, a.StartAt.Add(-2*24*time.Hour), due[1].ScheduledFor)
	for _, r := range due {
		assert.Equal(t, model.ReminderStatusScheduled, r.Status)
		assert.Equal(t, a.ID, r.AppointmentID)
	}

	events, err := stores.Events.ListForAppointment(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, model.EventTypeReminderScheduled, e.Type)
	}
}

func TestScheduleSkipsOffsetsInThePast(t *testing.T) {
	svc, stores := newTestService(t)
	ctx := context.Background()

	p := addPatient(t, stores, true)
	// Starts in 3 days: the 7-day offset already passed, the 2-day
	// offset is still ahead.
	addAppointment(t, stores, p, testNow.AddDate(0, 0, 3))

	res, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
}

func TestScheduleIsIdempotent(t *testing.T) {
	svc, stores := newTestService(t)
	ctx := context.Background()

	p := addPatient(t, stores, true)
	addAppointment(t, stores, p, testNow.AddDate(0, 0, 10))

	first, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)

	all, err := stores.Reminders.ListInRange(ctx, testNow, testNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestScheduleIgnoresInactivePatients(t *testing.T) {
	svc, stores := newTestService(t)
	ctx := context.Background()

	p := addPatient(t, stores, false)
	addAppointment(t, stores, p, testNow.AddDate(0, 0, 10))

	res, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 0, res.Skipped)
}

func TestScheduleIgnoresAppointmentsOutsideRange(t *testing.T) {
	svc, stores := newTestService(t)
	ctx := context.Background()

	p := addPatient(t, stores, true)
	addAppointment(t, stores, p, testNow.AddDate(0, 0, 60))

	res, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
}

func TestScheduleSkipsMissingPatient(t *testing.T) {
	svc, stores := newTestService(t)
	ctx := context.Background()

	orphan := &model.Patient{FullName: "Ghost", Phone: "+15550009999", Timezone: "UTC", Active: true}
	require.NoError(t, stores.Patients.Create(ctx, orphan))
	addAppointment(t, stores, orphan, testNow.AddDate(0, 0, 10))

	// Dangling patient reference on a second appointment.
	a := &model.Appointment{
		PatientID: uuid.New(),
		StartAt:   testNow.AddDate(0, 0, 10),
		Provider:  "Dr. Chen",
		Location:  "Main Clinic",
		Status:    model.AppointmentStatusScheduled,
		Version:   1,
	}
	require.NoError(t, stores.Appointments.Create(ctx, a))

	res, err := svc.Schedule(ctx, testNow, testNow.AddDate(0, 0, 30), []int{7})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}
