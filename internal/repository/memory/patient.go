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

type PatientStore struct {
	mu       *sync.RWMutex
	patients []model.Patient
}

func (s *PatientStore) Create(ctx context.Context, patient *model.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.patients {
		if p.Phone == patient.Phone {
			return apperrors.Conflict("patient with this phone already exists", nil)
		}
	}

	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	patient.CreatedAt = time.Now().UTC()
	patient.UpdatedAt = patient.CreatedAt
	s.patients = append(s.patients, *patient)
	return nil
}

func (s *PatientStore) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.patients {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (s *PatientStore) GetByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.patients {
		if p.Phone == phone {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (s *PatientStore) List(ctx context.Context, limit int) ([]*model.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Patient, 0, len(s.patients))
	for i := range s.patients {
		cp := s.patients[i]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
