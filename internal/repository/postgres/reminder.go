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

type reminderRepository struct {
	BaseRepository
}

func NewReminderRepository(base BaseRepository) repository.ReminderRepository {
	return &reminderRepository{base}
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, appointment_id, offset_days, scheduled_for,
			status, attempts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if reminder.ID == uuid.Nil {
		reminder.ID = uuid.New()
	}
	reminder.CreatedAt = time.Now().UTC()
	reminder.UpdatedAt = reminder.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.AppointmentID,
		reminder.OffsetDays,
		reminder.ScheduledFor,
		reminder.Status,
		reminder.Attempts,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("reminder already exists for this appointment and offset", err)
		}
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	query := `
		SELECT id, appointment_id, offset_days, scheduled_for, status,
		       attempts, last_error, dispatched_at, delivered_at,
		       created_at, updated_at
		FROM reminders
		WHERE id = $1
	`
	var reminder model.Reminder
	err := r.db.GetContext(ctx, &reminder, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("reminder", err)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	query := `
		SELECT id, appointment_id, offset_days, scheduled_for, status,
		       attempts, last_error, dispatched_at, delivered_at,
		       created_at, updated_at
		FROM reminders
		WHERE status IN ($1, $2)
		AND scheduled_for <= $3
		ORDER BY scheduled_for ASC
	`
	// Failed reminders re-enter the due set once their pushed-forward
	// scheduled_for passes; that is the whole retry mechanism.
	var reminders []*model.Reminder
	err := r.db.SelectContext(ctx, &reminders, query,
		model.ReminderStatusScheduled, model.ReminderStatusFailed, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*model.Reminder, error) {
	query := `
		SELECT id, appointment_id, offset_days, scheduled_for, status,
		       attempts, last_error, dispatched_at, delivered_at,
		       created_at, updated_at
		FROM reminders
		WHERE scheduled_for >= $1
		AND scheduled_for <= $2
		ORDER BY scheduled_for ASC
	`
	var reminders []*model.Reminder
	if err := r.db.SelectContext(ctx, &reminders, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list reminders in range: %w", err)
	}
	return reminders, nil
}

// Claim is the single atomic read-modify-write the dispatch protocol
// rests on: the filter includes the expected prior status, so exactly
// one concurrent caller sees a row affected.
func (r *reminderRepository) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	query := `
		UPDATE reminders
		SET status = $1, dispatched_at = $2, attempts = attempts + 1, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5)
	`
	result, err := r.db.ExecContext(ctx, query,
		model.ReminderStatusDispatched, now, id,
		model.ReminderStatusScheduled, model.ReminderStatusFailed)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *reminderRepository) MarkDelivered(ctx context.Context, id uuid.UUID, now time.Time) error {
	query := `
		UPDATE reminders
		SET status = $1, delivered_at = $2, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, model.ReminderStatusDelivered, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder delivered: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("reminder", nil)
	}
	return nil
}

func (r *reminderRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt, now time.Time) error {
	query := `
		UPDATE reminders
		SET status = $1, last_error = $2, scheduled_for = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		model.ReminderStatusFailed, lastError, retryAt, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("reminder", nil)
	}
	return nil
}
