// Package dispatch claims due reminders and executes delivery
// attempts against the configured transport.
package dispatch

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	"github.com/clinicops/reminderd/internal/service/eventlog"
	"github.com/clinicops/reminderd/internal/transport"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
	"github.com/clinicops/reminderd/pkg/logger"
)

const (
	// DefaultBackoff is pushed onto scheduled_for after a failed
	// delivery, making the reminder due again later.
	DefaultBackoff = 30 * time.Minute

	// TemplateName is the message template the executor renders with.
	TemplateName = "default"

	previewLength = 60
)

type Config struct {
	Backoff       time.Duration
	DeliveryRate  float64 // delivery attempts per second, 0 disables limiting
	DeliveryBurst int
	TemplateTTL   time.Duration
}

type Service struct {
	reminders    repository.ReminderRepository
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	templates    repository.TemplateRepository
	recorder     *eventlog.Recorder
	transport    transport.Transport

	backoff       time.Duration
	limiter       *rate.Limiter
	templateCache *gocache.Cache
	logger        *logger.Logger
	now           func() time.Time
}

func NewService(
	reminders repository.ReminderRepository,
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	templates repository.TemplateRepository,
	recorder *eventlog.Recorder,
	tp transport.Transport,
	cfg Config,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	if cfg.TemplateTTL <= 0 {
		cfg.TemplateTTL = 5 * time.Minute
	}

	var limiter *rate.Limiter
	if cfg.DeliveryRate > 0 {
		burst := cfg.DeliveryBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.DeliveryRate), burst)
	}

	return &Service{
		reminders:     reminders,
		appointments:  appointments,
		patients:      patients,
		templates:     templates,
		recorder:      recorder,
		transport:     tp,
		backoff:       cfg.Backoff,
		limiter:       limiter,
		templateCache: gocache.New(cfg.TemplateTTL, 2*cfg.TemplateTTL),
		logger:        log,
		now:           time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type Result struct {
	Due        int
	Dispatched int
	Failed     int
	ClaimsLost int
}

// DispatchDue claims and delivers every due reminder. Concurrent
// invocations are safe: the claim is a single conditional write, so a
// reminder lost to another worker is skipped silently. One reminder's
// failure never aborts the rest of the batch.
func (s *Service) DispatchDue(ctx context.Context) (Result, error) {
	var res Result

	now := s.now().UTC()
	due, err := s.reminders.ListDue(ctx, now)
	if err != nil {
		return res, err
	}
	res.Due = len(due)

	for _, reminder := range due {
		claimed, err := s.reminders.Claim(ctx, reminder.ID, s.now().UTC())
		if err != nil {
			s.logger.Error(err, "failed to claim reminder", "reminder_id", reminder.ID.String())
			res.Failed++
			continue
		}
		if !claimed {
			res.ClaimsLost++
			s.logger.Debug("reminder already claimed by another worker",
				"reminder_id", reminder.ID.String())
			continue
		}

		if err := s.deliver(ctx, reminder); err != nil {
			res.Failed++
		} else {
			res.Dispatched++
		}
	}

	return res, nil
}

// deliver runs one delivery attempt for a claimed reminder. The
// returned error only marks the attempt failed; it is never
// propagated past the batch loop.
func (s *Service) deliver(ctx context.Context, reminder *model.Reminder) error {
	appointment, err := s.appointments.Get(ctx, reminder.AppointmentID)
	if err != nil {
		return s.recordIntegrityFailure(ctx, reminder,
			apperrors.DataIntegrity("appointment missing for claimed reminder", err))
	}

	patient, err := s.patients.Get(ctx, appointment.PatientID)
	if err != nil {
		return s.recordIntegrityFailure(ctx, reminder,
			apperrors.DataIntegrity("patient missing for claimed reminder", err))
	}

	message := s.renderMessage(ctx, patient, appointment)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return s.recordDeliveryFailure(ctx, reminder, fmt.Sprintf("rate limiter: %v", err))
		}
	}

	ok, err := s.transport.Deliver(ctx, patient.Phone, message)
	if err != nil {
		return s.recordDeliveryFailure(ctx, reminder, err.Error())
	}
	if !ok {
		return s.recordDeliveryFailure(ctx, reminder, "delivery rejected by transport")
	}

	now := s.now().UTC()
	if err := s.reminders.MarkDelivered(ctx, reminder.ID, now); err != nil {
		s.logger.Error(err, "delivered but failed to mark reminder",
			"reminder_id", reminder.ID.String())
	}

	event := &model.Event{
		OccurredAt: now,
		Type:       model.EventTypeReminderDispatched,
		EntityType: model.EntityTypeReminder,
		EntityID:   reminder.ID,
		Payload: model.Payload{
			"appointment_id":  reminder.AppointmentID.String(),
			"message_preview": truncate(message, previewLength),
			"attempts":        reminder.Attempts + 1,
		},
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Error(err, "failed to record reminder_dispatched event",
			"reminder_id", reminder.ID.String())
	}

	s.logger.Info("reminder delivered",
		"reminder_id", reminder.ID.String(),
		"phone", patient.Phone,
		"preview", truncate(message, previewLength))
	return nil
}

// recordDeliveryFailure moves the reminder to failed with its
// scheduled_for pushed forward, re-entering the due set after the
// backoff. Failure is a retryable state, not a terminal one.
func (s *Service) recordDeliveryFailure(ctx context.Context, reminder *model.Reminder, cause string) error {
	now := s.now().UTC()
	retryAt := now.Add(s.backoff)

	if err := s.reminders.MarkFailed(ctx, reminder.ID, cause, retryAt, now); err != nil {
		s.logger.Error(err, "failed to mark reminder failed",
			"reminder_id", reminder.ID.String())
	}

	event := &model.Event{
		OccurredAt: now,
		Type:       model.EventTypeError,
		EntityType: model.EntityTypeReminder,
		EntityID:   reminder.ID,
		Payload: model.Payload{
			"appointment_id": reminder.AppointmentID.String(),
			"error":          cause,
			"retry_at":       retryAt.Format(time.RFC3339),
		},
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Error(err, "failed to record error event",
			"reminder_id", reminder.ID.String())
	}

	s.logger.Warn("delivery failed, reminder rescheduled",
		"reminder_id", reminder.ID.String(),
		"retry_at", retryAt.Format(time.RFC3339))
	return apperrors.TransportFailure(cause, nil)
}

// recordIntegrityFailure handles a claimed reminder whose parent
// records have vanished. Not retried: missing parents do not heal,
// and the claim is deliberately not reverted.
func (s *Service) recordIntegrityFailure(ctx context.Context, reminder *model.Reminder, cause *apperrors.AppError) error {
	event := &model.Event{
		OccurredAt: s.now().UTC(),
		Type:       model.EventTypeError,
		EntityType: model.EntityTypeReminder,
		EntityID:   reminder.ID,
		Payload: model.Payload{
			"appointment_id": reminder.AppointmentID.String(),
			"error":          cause.Error(),
		},
	}
	if err := s.recorder.Record(ctx, event); err != nil {
		s.logger.Error(err, "failed to record error event",
			"reminder_id", reminder.ID.String())
	}

	s.logger.Error(cause, "data integrity failure",
		"reminder_id", reminder.ID.String())
	return cause
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
