package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type TemplateStore struct {
	mu        *sync.RWMutex
	templates []model.MessageTemplate
}

func (s *TemplateStore) Create(ctx context.Context, template *model.MessageTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.templates {
		if t.Name == template.Name {
			return apperrors.Conflict(fmt.Sprintf("template %q already exists", template.Name), nil)
		}
	}

	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	template.CreatedAt = time.Now().UTC()
	template.UpdatedAt = template.CreatedAt
	s.templates = append(s.templates, *template)
	return nil
}

func (s *TemplateStore) GetByName(ctx context.Context, name string) (*model.MessageTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.Name == name {
			cp := t
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("template", nil)
}

func (s *TemplateStore) List(ctx context.Context, limit int) ([]*model.MessageTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.MessageTemplate, 0, len(s.templates))
	for i := range s.templates {
		cp := s.templates[i]
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
