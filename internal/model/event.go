package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeReminderScheduled  EventType = "reminder_scheduled"
	EventTypeReminderDispatched EventType = "reminder_dispatched"
	EventTypeStatusChanged      EventType = "status_changed"
	EventTypeReplyReceived      EventType = "reply_received"
	EventTypeClassification     EventType = "classification"
	EventTypeError              EventType = "error"
)

type EntityType string

const (
	EntityTypeAppointment EntityType = "appointment"
	EntityTypeReminder    EntityType = "reminder"
)

// Event is one immutable record in the append-only log. Events are
// never updated or deleted; the event stream is the system of record
// for history.
type Event struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	OccurredAt time.Time  `db:"occurred_at" json:"occurred_at"`
	Type       EventType  `db:"type" json:"type"`
	EntityType EntityType `db:"entity_type" json:"entity_type"`
	EntityID   uuid.UUID  `db:"entity_id" json:"entity_id"`
	Payload    Payload    `db:"payload" json:"payload"`
	TraceID    uuid.UUID  `db:"trace_id" json:"trace_id"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Payload is the type-specific event body, stored as jsonb.
type Payload map[string]interface{}

func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *Payload) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("unsupported payload type %T", src)
	}
}

// GetString returns a string payload field, or "" when absent or not
// a string.
func (p Payload) GetString(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}
