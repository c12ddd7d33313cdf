// Package report builds tabular views over reminder records.
package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/clinicops/reminderd/internal/repository"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

type Service struct {
	reminders    repository.ReminderRepository
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
}

func NewService(
	reminders repository.ReminderRepository,
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
) *Service {
	return &Service{
		reminders:    reminders,
		appointments: appointments,
		patients:     patients,
	}
}

// Row is one reminder joined with its appointment and patient.
type Row struct {
	ReminderID    string
	AppointmentID string
	PatientName   string
	Phone         string
	OffsetDays    int
	ScheduledFor  string
	Status        string
	Attempts      int
	LastError     string
	DispatchedAt  string
	DeliveredAt   string
}

// Reminders returns every reminder with scheduled_for inside the
// closed range, enriched with patient details. Dangling references
// render as Unknown rather than failing the report.
func (s *Service) Reminders(ctx context.Context, from, to time.Time) ([]Row, error) {
	reminders, err := s.reminders.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(reminders))
	for _, reminder := range reminders {
		row := Row{
			ReminderID:    reminder.ID.String(),
			AppointmentID: reminder.AppointmentID.String(),
			PatientName:   "Unknown",
			Phone:         "Unknown",
			OffsetDays:    reminder.OffsetDays,
			ScheduledFor:  reminder.ScheduledFor.Format(time.RFC3339),
			Status:        string(reminder.Status),
			Attempts:      reminder.Attempts,
		}
		if reminder.LastError != nil {
			row.LastError = *reminder.LastError
		}
		if reminder.DispatchedAt != nil {
			row.DispatchedAt = reminder.DispatchedAt.Format(time.RFC3339)
		}
		if reminder.DeliveredAt != nil {
			row.DeliveredAt = reminder.DeliveredAt.Format(time.RFC3339)
		}

		appointment, err := s.appointments.Get(ctx, reminder.AppointmentID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				rows = append(rows, row)
				continue
			}
			return nil, err
		}
		if patient, err := s.patients.Get(ctx, appointment.PatientID); err == nil {
			row.PatientName = patient.FullName
			row.Phone = patient.Phone
		} else if !apperrors.IsNotFound(err) {
			return nil, err
		}

		rows = append(rows, row)
	}
	return rows, nil
}

var csvHeader = []string{
	"reminder_id", "appointment_id", "patient_name", "phone",
	"offset_days", "scheduled_for", "status", "attempts",
	"last_error", "dispatched_at", "delivered_at",
}

// WriteCSV exports rows in the fixed 11-column layout.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ReminderID,
			row.AppointmentID,
			row.PatientName,
			row.Phone,
			strconv.Itoa(row.OffsetDays),
			row.ScheduledFor,
			row.Status,
			strconv.Itoa(row.Attempts),
			row.LastError,
			row.DispatchedAt,
			row.DeliveredAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
