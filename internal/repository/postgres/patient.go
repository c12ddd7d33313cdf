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

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(base BaseRepository) repository.PatientRepository {
	return &patientRepository{base}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, full_name, phone_e164, tz, active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	patient.CreatedAt = time.Now().UTC()
	patient.UpdatedAt = patient.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FullName,
		patient.Phone,
		patient.Timezone,
		patient.Active,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("patient with this phone already exists", err)
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `
		SELECT id, full_name, phone_e164, tz, active, created_at, updated_at
		FROM patients
		WHERE id = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPhone(ctx context.Context, phone string) (*model.Patient, error) {
	query := `
		SELECT id, full_name, phone_e164, tz, active, created_at, updated_at
		FROM patients
		WHERE phone_e164 = $1
	`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by phone: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, limit int) ([]*model.Patient, error) {
	query := `
		SELECT id, full_name, phone_e164, tz, active, created_at, updated_at
		FROM patients
		ORDER BY created_at ASC
		LIMIT $1
	`
	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
