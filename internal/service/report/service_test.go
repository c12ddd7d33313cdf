package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository/memory"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, stores *memory.Stores) *model.Reminder {
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

	r := &model.Reminder{
		AppointmentID: a.ID,
		OffsetDays:    2,
		ScheduledFor:  testNow.AddDate(0, 0, 3),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, r))
	return r
}

func TestRemindersJoinsPatientDetails(t *testing.T) {
	stores := memory.NewStores()
	seeded := seed(t, stores)

	svc := NewService(stores.Reminders, stores.Appointments, stores.Patients)
	rows, err := svc.Reminders(context.Background(), testNow, testNow.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, seeded.ID.String(), row.ReminderID)
	assert.Equal(t, "Maria Gomez", row.PatientName)
	assert.Equal(t, "+15550001111", row.Phone)
	assert.Equal(t, 2, row.OffsetDays)
	assert.Equal(t, "scheduled", row.Status)
	assert.Empty(t, row.LastError)
	assert.Empty(t, row.DeliveredAt)
}

func TestRemindersRespectsRange(t *testing.T) {
	stores := memory.NewStores()
	seed(t, stores)

	svc := NewService(stores.Reminders, stores.Appointments, stores.Patients)

	rows, err := svc.Reminders(context.Background(), testNow.AddDate(0, 0, 4), testNow.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRemindersDanglingReferencesRenderUnknown(t *testing.T) {
	stores := memory.NewStores()
	ctx := context.Background()

	r := &model.Reminder{
		AppointmentID: uuid.New(),
		OffsetDays:    2,
		ScheduledFor:  testNow.AddDate(0, 0, 3),
		Status:        model.ReminderStatusScheduled,
	}
	require.NoError(t, stores.Reminders.Create(ctx, r))

	svc := NewService(stores.Reminders, stores.Appointments, stores.Patients)
	rows, err := svc.Reminders(ctx, testNow, testNow.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown", rows[0].PatientName)
	assert.Equal(t, "Unknown", rows[0].Phone)
}

func TestWriteCSV(t *testing.T) {
	stores := memory.NewStores()
	seed(t, stores)

	svc := NewService(stores.Reminders, stores.Appointments, stores.Patients)
	rows, err := svc.Reminders(context.Background(), testNow, testNow.AddDate(0, 0, 7))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"reminder_id", "appointment_id", "patient_name", "phone",
		"offset_days", "scheduled_for", "status", "attempts",
		"last_error", "dispatched_at", "delivered_at",
	}, records[0])
	assert.Equal(t, "Maria Gomez", records[1][2])
	assert.Equal(t, "2", records[1][4])
	assert.Equal(t, "scheduled", records[1][6])
}
