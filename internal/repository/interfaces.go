package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
)

type PatientRepository interface {
	// Create fails with a Conflict when the phone number is taken.
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByPhone(ctx context.Context, phone string) (*model.Patient, error)
	List(ctx context.Context, limit int) ([]*model.Patient, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, limit int) ([]*model.Appointment, error)
	// ListScheduled returns appointments with status scheduled whose
	// start falls inside the closed range.
	ListScheduled(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
	ListScheduledForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	// UpdateStatus is a compare-and-swap: the write only lands when the
	// stored version still equals expectedVersion, and bumps it by one.
	// Returns false when the compare failed (concurrent mutation).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, expectedVersion int64) (bool, error)
}

type ReminderRepository interface {
	// Create fails with a Conflict when a reminder already exists for
	// the same (appointment, offset) pair.
	Create(ctx context.Context, reminder *model.Reminder) error
	Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
	// ListDue returns claim-eligible reminders (status scheduled or
	// failed) with scheduled_for <= now.
	ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error)
	// ListInRange returns reminders whose scheduled_for falls inside
	// the closed range, any status.
	ListInRange(ctx context.Context, from, to time.Time) ([]*model.Reminder, error)
	// Claim atomically moves a claim-eligible reminder (scheduled or
	// failed) to dispatched, stamping dispatched_at and incrementing
	// attempts. Returns false when the reminder was no longer
	// claim-eligible, i.e. a concurrent worker won the race.
	Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	MarkDelivered(ctx context.Context, id uuid.UUID, now time.Time) error
	// MarkFailed records the delivery error and pushes scheduled_for to
	// retryAt so the reminder re-enters the due set later.
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt, now time.Time) error
}

type TemplateRepository interface {
	// Create fails with a Conflict when the name is taken.
	Create(ctx context.Context, template *model.MessageTemplate) error
	GetByName(ctx context.Context, name string) (*model.MessageTemplate, error)
	List(ctx context.Context, limit int) ([]*model.MessageTemplate, error)
}

type EventRepository interface {
	// Append writes one immutable event. Events are never updated or
	// deleted.
	Append(ctx context.Context, event *model.Event) error
	// ListForAppointment returns every event keyed by the appointment
	// directly plus reminder events whose payload references it,
	// ordered by occurred_at ascending.
	ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Event, error)
}
