package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
)

type eventRepository struct {
	BaseRepository
}

func NewEventRepository(base BaseRepository) repository.EventRepository {
	return &eventRepository{base}
}

func (r *eventRepository) Append(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (
			id, occurred_at, type, entity_type, entity_id,
			payload, trace_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.TraceID == uuid.Nil {
		event.TraceID = uuid.New()
	}
	now := time.Now().UTC()
	if event.OccurredAt.IsZero() {
		event.OccurredAt = now
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.OccurredAt,
		event.Type,
		event.EntityType,
		event.EntityID,
		event.Payload,
		event.TraceID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *eventRepository) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Event, error) {
	query := `
		SELECT id, occurred_at, type, entity_type, entity_id,
		       payload, trace_id, created_at, updated_at
		FROM events
		WHERE (entity_type = $1 AND entity_id = $2)
		   OR (entity_type = $3 AND payload ->> 'appointment_id' = $4)
		ORDER BY occurred_at ASC
	`
	var events []*model.Event
	err := r.db.SelectContext(ctx, &events, query,
		model.EntityTypeAppointment, appointmentID,
		model.EntityTypeReminder, appointmentID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for appointment: %w", err)
	}
	return events, nil
}
