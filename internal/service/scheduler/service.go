// Package scheduler derives reminder instances from appointments and
// day offsets.
package scheduler

import (
	"context"
	"time"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	"github.com/clinicops/reminderd/internal/service/eventlog"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
	"github.com/clinicops/reminderd/pkg/logger"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	reminders    repository.ReminderRepository
	recorder     *eventlog.Recorder
	logger       *logger.Logger
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	reminders repository.ReminderRepository,
	recorder *eventlog.Recorder,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		appointments: appointments,
		patients:     patients,
		reminders:    reminders,
		recorder:     recorder,
		logger:       log,
		now:          time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Result struct {
	Created int
	Skipped int
}

// Schedule creates one reminder per (appointment, offset) for every
// scheduled appointment starting inside [from, to] whose patient is
// active. Offsets landing at or before the current instant and
// duplicates of existing reminders are counted as skips, never as
// errors.
func (s *Service) Schedule(ctx context.Context, from, to time.Time, offsets []int) (Result, error) {
	var res Result

	appointments, err := s.appointments.ListScheduled(ctx, from, to)
	if err != nil {
		return res, err
	}

	now := s.now().UTC()

	for _, appointment := range appointments {
		patient, err := s.patients.Get(ctx, appointment.PatientID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return res, err
		}
		if !patient.Active {
			continue
		}

		for _, offsetDays := range offsets {
			scheduledFor := appointment.StartAt.Add(-time.Duration(offsetDays) * 24 * time.Hour)
			if !scheduledFor.After(now) {
				res.Skipped++
				continue
			}

			reminder := &model.Reminder{
				AppointmentID: appointment.ID,
				OffsetDays:    offsetDays,
				ScheduledFor:  scheduledFor,
				Status:        model.ReminderStatusScheduled,
			}

			if err := s.reminders.Create(ctx, reminder); err != nil {
				if apperrors.IsConflict(err) {
					res.Skipped++
					s.logger.Debug("duplicate reminder skipped",
						"appointment_id", appointment.ID.String(),
						"offset_days", offsetDays)
					continue
				}
				return res, err
			}
			res.Created++

			event := &model.Event{
				OccurredAt: now,
				Type:       model.EventTypeReminderScheduled,
				EntityType: model.EntityTypeReminder,
				EntityID:   reminder.ID,
				Payload: model.Payload{
					"appointment_id": appointment.ID.String(),
					"offset_days":    offsetDays,
				},
			}
			if err := s.recorder.Record(ctx, event); err != nil {
				s.logger.Error(err, "failed to record reminder_scheduled event",
					"reminder_id", reminder.ID.String())
			}

			s.logger.Info("reminder scheduled",
				"patient", patient.FullName,
				"offset_days", offsetDays,
				"scheduled_for", scheduledFor.Format(time.RFC3339))
		}
	}

	return res, nil
}
