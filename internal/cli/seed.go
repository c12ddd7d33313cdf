package cli

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/service/appointment"
	"github.com/clinicops/reminderd/internal/service/patient"
	"github.com/clinicops/reminderd/internal/service/template"
	apperrors "github.com/clinicops/reminderd/pkg/errors"
)

var seedTimezones = []string{
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"Europe/London",
}

var seedProviders = []string{
	"Dr. Patel",
	"Dr. Okafor",
	"Dr. Lindqvist",
	"Dr. Ramirez",
	"Dr. Chen",
}

var seedLocations = []string{
	"Main Clinic, Room 2",
	"North Wing, Suite 410",
	"Downtown Office",
	"Telehealth",
}

const defaultTemplateBody = "Hi {patient.first_name}, this is a reminder of your " +
	"appointment with {appointment.provider} on {appointment.start_local} " +
	"at {appointment.location}. Reply YES to confirm or CANCEL to cancel."

func newSeedCommand() *cobra.Command {
	var (
		patientCount     int
		appointmentCount int
		randSeed         uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo patients and appointments",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			faker := gofakeit.New(randSeed)

			templates := template.NewService(app.Repos.Templates)
			if _, err := templates.Create(cmd.Context(), &model.CreateTemplateRequest{
				Name: "default",
				Body: defaultTemplateBody,
			}); err != nil && !apperrors.IsConflict(err) {
				return fmt.Errorf("failed to seed default template: %w", err)
			}

			patients := patient.NewService(app.Repos.Patients)
			created := make([]*model.Patient, 0, patientCount)
			for i := 0; i < patientCount; i++ {
				p, err := patients.Create(cmd.Context(), &model.CreatePatientRequest{
					FullName: faker.Name(),
					Phone:    "+1" + faker.Numerify("555#######"),
					Timezone: seedTimezones[faker.Number(0, len(seedTimezones)-1)],
				})
				if err != nil {
					if apperrors.IsConflict(err) {
						continue
					}
					return fmt.Errorf("failed to seed patient: %w", err)
				}
				created = append(created, p)
			}
			if len(created) == 0 {
				return fmt.Errorf("no patients created, nothing to schedule against")
			}

			appointments := appointment.NewService(app.Repos.Appointments, app.Repos.Patients)
			now := time.Now().UTC()
			for i := 0; i < appointmentCount; i++ {
				p := created[faker.Number(0, len(created)-1)]
				day := now.Truncate(24 * time.Hour).AddDate(0, 0, faker.Number(2, 14))
				startAt := day.Add(time.Duration(faker.Number(9, 16)) * time.Hour)
				_, err := appointments.Create(cmd.Context(), &model.CreateAppointmentRequest{
					PatientID: p.ID,
					StartAt:   startAt,
					Provider:  seedProviders[faker.Number(0, len(seedProviders)-1)],
					Location:  seedLocations[faker.Number(0, len(seedLocations)-1)],
				})
				if err != nil {
					return fmt.Errorf("failed to seed appointment: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d patients and %d appointments\n",
				len(created), appointmentCount)
			return nil
		}),
	}

	cmd.Flags().IntVar(&patientCount, "patients", 10, "number of patients to create")
	cmd.Flags().IntVar(&appointmentCount, "appointments", 20, "number of appointments to create")
	cmd.Flags().Uint64Var(&randSeed, "seed", 0, "random seed (0 for non-deterministic)")

	return cmd
}
