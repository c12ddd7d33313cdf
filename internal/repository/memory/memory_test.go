package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/reminderd/internal/model"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestReminderCreateRejectsDuplicateOffset(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	r := &model.Reminder{
		AppointmentID: newAppointment(t, stores).ID,
		OffsetDays:    7,
		ScheduledFor:  testNow.AddDate(0, 0, 3),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, r))

	dup := &model.Reminder{
		AppointmentID: r.AppointmentID,
		OffsetDays:    7,
		ScheduledFor:  testNow.AddDate(0, 0, 3),
		Status:        model.ReminderStatusScheduled,
	}
	err := stores.Reminders.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	// A different offset for the same appointment is fine.
	other := &model.Reminder{
		AppointmentID: r.AppointmentID,
		OffsetDays:    2,
		ScheduledFor:  testNow.AddDate(0, 0, 8),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, other))
}

func TestReminderClaimExactlyOnce(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	r := &model.Reminder{
		AppointmentID: newAppointment(t, stores).ID,
		OffsetDays:    7,
		ScheduledFor:  testNow.Add(-time.Hour),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, r))

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := stores.Reminders.Claim(ctx, r.ID, testNow)
			assert.NoError(t, err)
			if claimed {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)

	got, err := stores.Reminders.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusDispatched, got.Status)
	assert.Equal(t, 1, got.Attempts)
}

func TestReminderFailedIsClaimableAgain(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	r := &model.Reminder{
		AppointmentID: newAppointment(t, stores).ID,
		OffsetDays:    7,
		ScheduledFor:  testNow.Add(-time.Hour),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, r))

	claimed, err := stores.Reminders.Claim(ctx, r.ID, testNow)
	require.NoError(t, err)
	require.True(t, claimed)

	retryAt := testNow.Add(30 * time.Minute)
	require.NoError(t, stores.Reminders.MarkFailed(ctx, r.ID, "transport down", retryAt, testNow))

	due, err := stores.Reminders.ListDue(ctx, retryAt)
	require.NoError(t, err)
	require.Len(t, due, 1)

	claimed, err = stores.Reminders.Claim(ctx, r.ID, retryAt)
	require.NoError(t, err)
	assert.True(t, claimed)

	got, err := stores.Reminders.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
}

func TestReminderDeliveredIsNeverDue(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	r := &model.Reminder{
		AppointmentID: newAppointment(t, stores).ID,
		OffsetDays:    7,
		ScheduledFor:  testNow.Add(-time.Hour),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, r))

	_, err := stores.Reminders.Claim(ctx, r.ID, testNow)
	require.NoError(t, err)
	require.NoError(t, stores.Reminders.MarkDelivered(ctx, r.ID, testNow))

	due, err := stores.Reminders.ListDue(ctx, testNow.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Empty(t, due)

	claimed, err := stores.Reminders.Claim(ctx, r.ID, testNow)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestAppointmentUpdateStatusChecksVersion(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()
	a := newAppointment(t, stores)

	swapped, err := stores.Appointments.UpdateStatus(ctx, a.ID, model.AppointmentStatusConfirmed, a.Version)
	require.NoError(t, err)
	assert.True(t, swapped)

	// Replaying the same transition with the stale version loses.
	swapped, err = stores.Appointments.UpdateStatus(ctx, a.ID, model.AppointmentStatusCanceled, a.Version)
	require.NoError(t, err)
	assert.False(t, swapped)

	got, err := stores.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
	assert.Equal(t, int64(2), got.Version)
}

func TestPatientCreateRejectsDuplicatePhone(t *testing.T) {
	stores := NewStores()
	ctx := context.Background()

	p := &model.Patient{FullName: "Maria Gomez", Phone: "+15550001111", Timezone: "UTC", Active: true}
	require.NoError(t, stores.Patients.Create(ctx, p))

	dup := &model.Patient{FullName: "Other Person", Phone: "+15550001111", Timezone: "UTC", Active: true}
	err := stores.Patients.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func newAppointment(t *testing.T, stores *Stores) *model.Appointment {
	t.Helper()
	ctx := context.Background()

	p := &model.Patient{FullName: "Maria Gomez", Phone: "+15550001111", Timezone: "UTC", Active: true}
	require.NoError(t, stores.Patients.Create(ctx, p))

	a := &model.Appointment{
		PatientID: p.ID,
		StartAt:   testNow.AddDate(0, 0, 7),
		Provider:  "Dr. Chen",
		Location:  "Main Clinic",
		Status:    model.AppointmentStatusScheduled,
		Version:   1,
	}
	require.NoError(t, stores.Appointments.Create(ctx, a))
	return a
}
