package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinicops/reminderd/internal/model"
)

const startLocalLayout = "2006-01-02 15:04"

// renderMessage renders the default template for this patient and
// appointment, falling back to a fixed-format message when no
// template exists. Template lookups go through a short-lived cache so
// a dispatch run over many reminders hits the store once.
func (s *Service) renderMessage(ctx context.Context, patient *model.Patient, appointment *model.Appointment) string {
	tmpl := s.lookupTemplate(ctx)
	if tmpl == nil {
		return fallbackMessage(patient, appointment)
	}
	return substitute(tmpl.Body, patient, appointment)
}

func (s *Service) lookupTemplate(ctx context.Context) *model.MessageTemplate {
	if cached, found := s.templateCache.Get(TemplateName); found {
		tmpl, _ := cached.(*model.MessageTemplate)
		return tmpl
	}

	tmpl, err := s.templates.GetByName(ctx, TemplateName)
	if err != nil {
		// Cache the miss too; a clinic without a template should not
		// hammer the store once per reminder.
		s.templateCache.SetDefault(TemplateName, (*model.MessageTemplate)(nil))
		return nil
	}
	s.templateCache.SetDefault(TemplateName, tmpl)
	return tmpl
}

func substitute(body string, patient *model.Patient, appointment *model.Appointment) string {
	r := strings.NewReplacer(
		"{patient.first_name}", patient.FirstName(),
		"{appointment.start_local}", startLocal(patient, appointment).Format(startLocalLayout),
		"{appointment.location}", appointment.Location,
		"{appointment.provider}", appointment.Provider,
	)
	return r.Replace(body)
}

func fallbackMessage(patient *model.Patient, appointment *model.Appointment) string {
	return fmt.Sprintf(
		"Hi %s, your appointment with %s is on %s at %s.",
		patient.FirstName(),
		appointment.Provider,
		startLocal(patient, appointment).Format("2006-01-02 at 15:04"),
		appointment.Location,
	)
}

// startLocal converts the appointment start into the patient's
// timezone, keeping UTC when the zone name does not resolve.
func startLocal(patient *model.Patient, appointment *model.Appointment) time.Time {
	loc, err := time.LoadLocation(patient.Timezone)
	if err != nil {
		return appointment.StartAt.UTC()
	}
	return appointment.StartAt.In(loc)
}
