package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
)

type EventStore struct {
	mu     *sync.RWMutex
	events []model.Event
}

func (s *EventStore) Append(ctx context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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

	s.events = append(s.events, *event)
	return nil
}

func (s *EventStore) ListForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Event
	for i := range s.events {
		e := s.events[i]
		direct := e.EntityType == model.EntityTypeAppointment && e.EntityID == appointmentID
		linked := e.EntityType == model.EntityTypeReminder &&
			e.Payload.GetString("appointment_id") == appointmentID.String()
		if !direct && !linked {
			continue
		}
		cp := e
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
