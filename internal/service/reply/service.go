// Package reply ingests patient replies and applies the resulting
// appointment status transitions.
package reply

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/clinicops/reminderd/internal/classify"
	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	"github.com/clinicops/reminderd/internal/service/eventlog"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
	"github.com/clinicops/reminderd/pkg/logger"
)

// Row is one inbound reply record.
type Row struct {
	From       string `validate:"required"`
	To         string `validate:"required"`
	Message    string `validate:"required"`
	ReceivedAt string `validate:"required"`
}

type Result struct {
	Processed     int
	StatusChanges int
	Errors        int
}

type Service struct {
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	recorder     *eventlog.Recorder
	validate     *validator.Validate
	logger       *logger.Logger
	now          func() time.Time
}

func NewService(
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	recorder *eventlog.Recorder,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		patients:     patients,
		appointments: appointments,
		recorder:     recorder,
		validate:     validator.New(),
		logger:       log,
		now:          time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// transitions maps a classified intent onto the status it requests.
// Transitions only apply to appointments currently scheduled.
var transitions = map[classify.Intent]model.AppointmentStatus{
	classify.IntentConfirmed:  model.AppointmentStatusConfirmed,
	classify.IntentCancel:     model.AppointmentStatusCanceled,
	classify.IntentReschedule: model.AppointmentStatusRescheduleRequested,
}

// Process handles one reply. A reply_received event is always
// appended; a status_changed event and version bump only happen on an
// actual transition. Returns whether the appointment status changed.
func (s *Service) Process(ctx context.Context, row Row, apply bool) (bool, error) {
	if err := s.validate.Struct(row); err != nil {
		return false, apperrors.Validation("missing required fields", err)
	}

	receivedAt, err := time.Parse(time.RFC3339, row.ReceivedAt)
	if err != nil {
		return false, apperrors.Validation("unparseable received_at timestamp", err)
	}

	patient, err := s.patients.GetByPhone(ctx, row.From)
	if err != nil {
		return false, err
	}

	appointments, err := s.appointments.ListScheduledForPatient(ctx, patient.ID)
	if err != nil {
		return false, err
	}
	if len(appointments) == 0 {
		return false, apperrors.NotFound("scheduled appointment", nil)
	}

	// Policy, not inference: an ambiguous reply is attributed to the
	// patient's scheduled appointment with the latest start time.
	appointment := appointments[0]
	for _, a := range appointments[1:] {
		if a.StartAt.After(appointment.StartAt) {
			appointment = a
		}
	}

	intent := classify.Classify(row.Message)

	event := &model.Event{
		OccurredAt: s.now().UTC(),
		Type:       model.EventTypeReplyReceived,
		EntityType: model.EntityTypeAppointment,
		EntityID:   appointment.ID,
		Payload: model.Payload{
			"from_phone":  row.From,
			"to_phone":    row.To,
			"message":     row.Message,
			"received_at": receivedAt.UTC().Format(time.RFC3339),
			"classification": map[string]interface{}{
				"intent":     string(intent),
				"confidence": classify.Confidence(intent),
			},
		},
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		return false, err
	}

	if !apply || intent == classify.IntentUnknown {
		return false, nil
	}

	newStatus, ok := transitions[intent]
	if !ok || appointment.Status != model.AppointmentStatusScheduled || newStatus == appointment.Status {
		// No valid transition from the current status: the reply is
		// logged but the appointment is untouched.
		return false, nil
	}

	swapped, err := s.appointments.UpdateStatus(ctx, appointment.ID, newStatus, appointment.Version)
	if err != nil {
		return false, err
	}
	if !swapped {
		return false, apperrors.Conflict("appointment modified concurrently", nil)
	}

	statusEvent := &model.Event{
		OccurredAt: s.now().UTC(),
		Type:       model.EventTypeStatusChanged,
		EntityType: model.EntityTypeAppointment,
		EntityID:   appointment.ID,
		Payload: model.Payload{
			"previous_status": string(appointment.Status),
			"new_status":      string(newStatus),
			"reason":          "reply_classification",
		},
	}
	if err := s.recorder.Record(ctx, statusEvent); err != nil {
		return true, err
	}

	s.logger.Info("appointment status changed",
		"appointment_id", appointment.ID.String(),
		"patient", patient.FullName,
		"intent", string(intent),
		"previous_status", string(appointment.Status),
		"new_status", string(newStatus))
	return true, nil
}
