package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type ReminderStore struct {
	mu        *sync.RWMutex
	reminders []model.Reminder
}

func (s *ReminderStore) Create(ctx context.Context, reminder *model.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reminders {
		if r.AppointmentID == reminder.AppointmentID && r.OffsetDays == reminder.OffsetDays {
			return apperrors.Conflict("reminder already exists for this appointment and offset", nil)
		}
	}

	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	reminder.CreatedAt = time.Now().UTC()
	reminder.UpdatedAt = reminder.CreatedAt
	s.reminders = append(s.reminders, *reminder)
	return nil
}

func (s *ReminderStore) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reminders {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("reminder", nil)
}

func claimEligible(status model.ReminderStatus) bool {
	return status == model.ReminderStatusScheduled || status == model.ReminderStatusFailed
}

func (s *ReminderStore) ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Reminder
	for i := range s.reminders {
		r := s.reminders[i]
		if !claimEligible(r.Status) || r.ScheduledFor.After(now) {
			continue
		}
		cp := r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (s *ReminderStore) ListInRange(ctx context.Context, from, to time.Time) ([]*model.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Reminder
	for i := range s.reminders {
		r := s.reminders[i]
		if r.ScheduledFor.Before(from) || r.ScheduledFor.After(to) {
			continue
		}
		cp := r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (s *ReminderStore) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reminders {
		r := &s.reminders[i]
		if r.ID != id {
			continue
		}
		if !claimEligible(r.Status) {
			return false, nil
		}
		r.Status = model.ReminderStatusDispatched
		dispatchedAt := now
		r.DispatchedAt = &dispatchedAt
		r.Attempts++
		r.UpdatedAt = now
		return true, nil
	}
	return false, nil
}

func (s *ReminderStore) MarkDelivered(ctx context.Context, id uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reminders {
		r := &s.reminders[i]
		if r.ID != id {
			continue
		}
		r.Status = model.ReminderStatusDelivered
		deliveredAt := now
		r.DeliveredAt = &deliveredAt
		r.UpdatedAt = now
		return nil
	}
	return apperrors.NotFound("reminder", nil)
}

func (s *ReminderStore) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reminders {
		r := &s.reminders[i]
		if r.ID != id {
			continue
		}
		r.Status = model.ReminderStatusFailed
		r.LastError = &lastError
		r.ScheduledFor = retryAt
		r.UpdatedAt = now
		return nil
	}
	return apperrors.NotFound("reminder", nil)
}
