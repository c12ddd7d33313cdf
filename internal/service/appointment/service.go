package appointment

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	validate *validator.Validate
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients, validate: validator.New()}
}

// Create registers a new appointment in scheduled status at version 1.
// The patient reference must resolve.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.Validation("invalid appointment", err)
	}

	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		PatientID: req.PatientID,
		StartAt:   req.StartAt,
		Provider:  req.Provider,
		Location:  req.Location,
		Status:    model.AppointmentStatusScheduled,
		Version:   1,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]*model.Appointment, error) {
	return s.repo.List(ctx, limit)
}
