package reply

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository/memory"
	"github.com/clinicops/reminderd/internal/service/eventlog"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memory.Stores) {
	stores := memory.NewStores()
	recorder := eventlog.NewRecorder(stores.Events, nil, nil)
	svc := NewService(stores.Patients, stores.Appointments, recorder, nil).
		WithClock(func() time.Time { return testNow })
	return svc, stores
}

func seedPatientAndAppointment(t *testing.T, stores *memory.Stores) (*model.Patient, *model.Appointment) {
	t.Helper()
	ctx := context.Background()

	p := &model.Patient{FullName: "Maria Gomez", Phone: "+15550001111", Timezone: "UTC", Active: true}
	require.NoError(t, stores.Patients.Create(ctx, p))

	a := &model.Appointment{
		PatientID: p.ID,
		StartAt:   testNow.AddDate(0, 0, 5),
		Provider:  "Dr. Chen",
		Location:  "Main Clinic",
		Status:    model.AppointmentStatusScheduled,
		Version:   1,
	}
	require.NoError(t, stores.Appointments.Create(ctx, a))
	return p, a
}

func row(from, message string) Row {
	return Row{
		From:       from,
		To:         "+15559990000",
		Message:    message,
		ReceivedAt: testNow.Format(time.RFC3339),
	}
}

func TestProcessConfirmsAppointment(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, a := seedPatientAndAppointment(t, stores)

	changed, err := svc.Process(ctx, row(p.Phone, "Yes, see you then"), true)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := stores.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
	assert.Equal(t, int64(2), got.Version)

	events, err := stores.Events.ListForAppointment(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventTypeReplyReceived, events[0].Type)
	assert.Equal(t, model.EventTypeStatusChanged, events[1].Type)
	assert.Equal(t, "scheduled", events[1].Payload.GetString("previous_status"))
	assert.Equal(t, "confirmed", events[1].Payload.GetString("new_status"))
	assert.Equal(t, "reply_classification", events[1].Payload.GetString("reason"))
}

func TestProcessCancelAndReschedule(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    model.AppointmentStatus
	}{
		{"cancel", "sorry, I need to cancel", model.AppointmentStatusCanceled},
		{"reschedule", "can we reschedule to another time", model.AppointmentStatusRescheduleRequested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, stores := newTestService()
			ctx := context.Background()
			p, a := seedPatientAndAppointment(t, stores)

			changed, err := svc.Process(ctx, row(p.Phone, tt.message), true)
			require.NoError(t, err)
			assert.True(t, changed)

			got, err := stores.Appointments.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestProcessUnknownIntentOnlyLogs(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, a := seedPatientAndAppointment(t, stores)

	changed, err := svc.Process(ctx, row(p.Phone, "what should I bring?"), true)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := stores.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)
	assert.Equal(t, int64(1), got.Version)

	events, err := stores.Events.ListForAppointment(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTypeReplyReceived, events[0].Type)
}

func TestProcessWithoutApplyNeverTransitions(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, a := seedPatientAndAppointment(t, stores)

	changed, err := svc.Process(ctx, row(p.Phone, "yes, confirmed"), false)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := stores.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)

	// The reply itself is still on record.
	events, err := stores.Events.ListForAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestProcessRepeatReplyIsNoOp(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, _ := seedPatientAndAppointment(t, stores)

	changed, err := svc.Process(ctx, row(p.Phone, "yes"), true)
	require.NoError(t, err)
	assert.True(t, changed)

	// The appointment left scheduled status, so there is no longer a
	// scheduled appointment to attribute the second reply to.
	_, err = svc.Process(ctx, row(p.Phone, "yes"), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProcessPicksLatestScheduledAppointment(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, earlier := seedPatientAndAppointment(t, stores)

	later := &model.Appointment{
		PatientID: p.ID,
		StartAt:   testNow.AddDate(0, 0, 12),
		Provider:  "Dr. Chen",
		Location:  "Main Clinic",
		Status:    model.AppointmentStatusScheduled,
		Version:   1,
	}
	require.NoError(t, stores.Appointments.Create(ctx, later))

	changed, err := svc.Process(ctx, row(p.Phone, "yes"), true)
	require.NoError(t, err)
	assert.True(t, changed)

	gotLater, err := stores.Appointments.Get(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, gotLater.Status)

	gotEarlier, err := stores.Appointments.Get(ctx, earlier.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, gotEarlier.Status)
}

func TestProcessUnknownPhone(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Process(context.Background(), row("+15550009999", "yes"), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProcessNoScheduledAppointment(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()

	p := &model.Patient{FullName: "Maria Gomez", Phone: "+15550001111", Timezone: "UTC", Active: true}
	require.NoError(t, stores.Patients.Create(ctx, p))

	_, err := svc.Process(ctx, row(p.Phone, "yes"), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProcessRejectsInvalidRows(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, _ := seedPatientAndAppointment(t, stores)

	missing := row(p.Phone, "yes")
	missing.Message = ""
	_, err := svc.Process(ctx, missing, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	badTime := row(p.Phone, "yes")
	badTime.ReceivedAt = "June first"
	_, err = svc.Process(ctx, badTime, true)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
