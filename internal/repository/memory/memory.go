// Package memory provides mutex-guarded in-memory implementations of
// the repository interfaces. They uphold the same uniqueness and
// conditional-update semantics as the Postgres implementations and
// back the unit tests.
package memory

import "sync"

// Stores bundles one in-memory instance of every repository sharing a
// single lock, so cross-collection reads behave like one store.
type Stores struct {
	Patients     *PatientStore
	Appointments *AppointmentStore
	Reminders    *ReminderStore
	Templates    *TemplateStore
	Events       *EventStore
}

func NewStores() *Stores {
	mu := &sync.RWMutex{}
	return &Stores{
		Patients:     &PatientStore{mu: mu},
		Appointments: &AppointmentStore{mu: mu},
		Reminders:    &ReminderStore{mu: mu},
		Templates:    &TemplateStore{mu: mu},
		Events:       &EventStore{mu: mu},
	}
}
