package patient

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type Service struct {
	repo     repository.PatientRepository
	validate *validator.Validate
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("invalid patient", err)
	}

	patient := &model.Patient{
		FullName: req.FullName,
		Phone:    req.Phone,
		Timezone: req.Timezone,
		Active:   true,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]*model.Patient, error) {
	return s.repo.List(ctx, limit)
}
