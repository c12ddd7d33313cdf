// Package history reconstructs an appointment's audit trail from the
// event log.
package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	events       repository.EventRepository
}

func NewService(
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	events repository.EventRepository,
) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		events:       events,
	}
}

// History is the reconstructed view: the appointment snapshot plus
// every event referencing it, ordered by occurrence time. Events may
// be empty; that is a valid history, distinct from the appointment
// not existing at all.
type History struct {
	Appointment *model.Appointment
	PatientName string
	Events      []*model.Event
}

func (s *Service) Get(ctx context.Context, appointmentID uuid.UUID) (*History, error) {
	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	patientName := "Unknown"
	if patient, err := s.patients.Get(ctx, appointment.PatientID); err == nil {
		patientName = patient.FullName
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	events, err := s.events.ListForAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	return &History{
		Appointment: appointment,
		PatientName: patientName,
		Events:      events,
	}, nil
}
