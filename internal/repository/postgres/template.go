package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type templateRepository struct {
	BaseRepository
}

func NewTemplateRepository(base BaseRepository) repository.TemplateRepository {
	return &templateRepository{base}
}

func (r *templateRepository) Create(ctx context.Context, template *model.MessageTemplate) error {
	query := `
		INSERT INTO message_templates (
			id, name, channel, language, body, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	template.CreatedAt = time.Now().UTC()
	template.UpdatedAt = template.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		template.ID,
		template.Name,
		template.Channel,
		template.Language,
		template.Body,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict(fmt.Sprintf("template %q already exists", template.Name), err)
		}
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

func (r *templateRepository) GetByName(ctx context.Context, name string) (*model.MessageTemplate, error) {
	query := `
		SELECT id, name, channel, language, body, created_at, updated_at
		FROM message_templates
		WHERE name = $1
	`
	var template model.MessageTemplate
	err := r.db.GetContext(ctx, &template, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("template", err)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &template, nil
}

func (r *templateRepository) List(ctx context.Context, limit int) ([]*model.MessageTemplate, error) {
	query := `
		SELECT id, name, channel, language, body, created_at, updated_at
		FROM message_templates
		ORDER BY created_at ASC
		LIMIT $1
	`
	var templates []*model.MessageTemplate
	if err := r.db.SelectContext(ctx, &templates, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}
