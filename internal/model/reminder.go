package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderStatusScheduled  ReminderStatus = "scheduled"
	ReminderStatusDispatched ReminderStatus = "dispatched"
	ReminderStatusDelivered  ReminderStatus = "delivered"
	ReminderStatusFailed     ReminderStatus = "failed"
	ReminderStatusCanceled   ReminderStatus = "canceled"
)

// Reminder is a single scheduled notification for an appointment.
// At most one reminder exists per (appointment, offset) pair; the
// uniqueness constraint lives in the store and duplicate inserts
// surface as a Conflict.
type Reminder struct {
	Base
	AppointmentID uuid.UUID      `db:"appointment_id" json:"appointment_id"`
	OffsetDays    int            `db:"offset_days" json:"offset_days"`
	ScheduledFor  time.Time      `db:"scheduled_for" json:"scheduled_for"`
	Status        ReminderStatus `db:"status" json:"status"`
	Attempts      int            `db:"attempts" json:"attempts"`
	LastError     *string        `db:"last_error" json:"last_error,omitempty"`
	DispatchedAt  *time.Time     `db:"dispatched_at" json:"dispatched_at,omitempty"`
	DeliveredAt   *time.Time     `db:"delivered_at" json:"delivered_at,omitempty"`
}
