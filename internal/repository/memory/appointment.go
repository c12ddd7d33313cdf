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

type AppointmentStore struct {
	mu           *sync.RWMutex
	appointments []model.Appointment
}

func (s *AppointmentStore) Create(ctx context.Context, appointment *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now().UTC()
	appointment.UpdatedAt = appointment.CreatedAt
	s.appointments = append(s.appointments, *appointment)
	return nil
}

func (s *AppointmentStore) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (s *AppointmentStore) List(ctx context.Context, limit int) ([]*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Appointment, 0, len(s.appointments))
	for i := range s.appointments {
		cp := s.appointments[i]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *AppointmentStore) ListScheduled(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Appointment
	for i := range s.appointments {
		a := s.appointments[i]
		if a.Status != model.AppointmentStatusScheduled {
			continue
		}
		if a.StartAt.Before(from) || a.StartAt.After(to) {
			continue
		}
		cp := a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *AppointmentStore) ListScheduledForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Appointment
	for i := range s.appointments {
		a := s.appointments[i]
		if a.PatientID != patientID || a.Status != model.AppointmentStatusScheduled {
			continue
		}
		cp := a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *AppointmentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, expectedVersion int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.appointments {
		a := &s.appointments[i]
		if a.ID != id {
			continue
		}
		if a.Version != expectedVersion {
			return false, nil
		}
		a.Status = status
		a.Version++
		a.UpdatedAt = time.Now().UTC()
		return true, nil
	}
	return false, nil
}
