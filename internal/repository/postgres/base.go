package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/clinicops/reminderd/internal/repository"
)

// BaseRepository provides the shared database handle for all
// repositories.
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// Repositories bundles every store implementation over one handle.
type Repositories struct {
	Patients     repository.PatientRepository
	Appointments repository.AppointmentRepository
	Reminders    repository.ReminderRepository
	Templates    repository.TemplateRepository
	Events       repository.EventRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	base := NewBaseRepository(db)
	return &Repositories{
		Patients:     NewPatientRepository(base),
		Appointments: NewAppointmentRepository(base),
		Reminders:    NewReminderRepository(base),
		Templates:    NewTemplateRepository(base),
		Events:       NewEventRepository(base),
	}
}
