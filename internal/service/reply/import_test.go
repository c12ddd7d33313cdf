package reply

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/reminderd/internal/model"
)

func TestProcessReader(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, a := seedPatientAndAppointment(t, stores)

	csv := strings.Join([]string{
		"from,to,message,received_at",
		p.Phone + ",+15559990000,yes see you then," + testNow.Format("2006-01-02T15:04:05Z"),
		"+15550009999,+15559990000,yes," + testNow.Format("2006-01-02T15:04:05Z"), // unknown sender
		p.Phone + ",+15559990000,,",                                              // missing fields
	}, "\n")

	res, err := svc.ProcessReader(ctx, strings.NewReader(csv), true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.StatusChanges)
	assert.Equal(t, 2, res.Errors)

	got, err := stores.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
}

func TestProcessReaderHeaderOrderIndependent(t *testing.T) {
	svc, stores := newTestService()
	ctx := context.Background()
	p, a := seedPatientAndAppointment(t, stores)

	csv := strings.Join([]string{
		"received_at, message ,to,from",
		testNow.Format("2006-01-02T15:04:05Z") + ",cancel please,+15559990000," + p.Phone,
	}, "\n")

	res, err := svc.ProcessReader(ctx, strings.NewReader(csv), true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.StatusChanges)

	got, err := stores.Appointments.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCanceled, got.Status)
}

func TestProcessReaderEmptyBody(t *testing.T) {
	svc, _ := newTestService()

	res, err := svc.ProcessReader(context.Background(), strings.NewReader("from,to,message,received_at\n"), true)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestProcessReaderMissingHeader(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ProcessReader(context.Background(), strings.NewReader(""), true)
	require.Error(t, err)
}
