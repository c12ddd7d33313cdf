package template

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type Service struct {
	repo     repository.TemplateRepository
	validate *validator.Validate
}

func NewService(repo repository.TemplateRepository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) Create(ctx context.Context, req *model.CreateTemplateRequest) (*model.MessageTemplate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("invalid template", err)
	}

	template := &model.MessageTemplate{
		Name:     req.Name,
		Channel:  model.TemplateChannelSMS,
		Language: "en",
		Body:     req.Body,
	}
	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]*model.MessageTemplate, error) {
	return s.repo.List(ctx, limit)
}
