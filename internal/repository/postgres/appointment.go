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

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, start_at, provider, location,
			status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	appointment.CreatedAt = time.Now().UTC()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.StartAt,
		appointment.Provider,
		appointment.Location,
		appointment.Status,
		appointment.Version,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, start_at, provider, location,
		       status, version, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, limit int) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, start_at, provider, location,
		       status, version, created_at, updated_at
		FROM appointments
		ORDER BY start_at ASC
		LIMIT $1
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListScheduled(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, start_at, provider, location,
		       status, version, created_at, updated_at
		FROM appointments
		WHERE status = $1
		AND start_at >= $2
		AND start_at <= $3
		ORDER BY start_at ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, model.AppointmentStatusScheduled, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListScheduledForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, start_at, provider, location,
		       status, version, created_at, updated_at
		FROM appointments
		WHERE patient_id = $1
		AND status = $2
		ORDER BY start_at ASC
	`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, patientID, model.AppointmentStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, expectedVersion int64) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id, expectedVersion)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
