package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/service/appointment"
)

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func newAppointmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Manage appointments",
	}
	cmd.AddCommand(newAppointmentsAddCommand())
	cmd.AddCommand(newAppointmentsListCommand())
	return cmd
}

func newAppointmentsAddCommand() *cobra.Command {
	var (
		patientID string
		startAt   string
		provider  string
		location  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new appointment",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			pid, err := uuid.Parse(patientID)
			if err != nil {
				return fmt.Errorf("invalid --patient-id: %w", err)
			}
			start, err := time.Parse(time.RFC3339, startAt)
			if err != nil {
				return fmt.Errorf("invalid --start-at %q: use RFC3339, e.g. 2025-02-20T15:00:00Z", startAt)
			}

			svc := appointment.NewService(app.Repos.Appointments, app.Repos.Patients)
			a, err := svc.Create(cmd.Context(), &model.CreateAppointmentRequest{
				PatientID: pid,
				StartAt:   start,
				Provider:  provider,
				Location:  location,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appointment created: %s\n", a.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&patientID, "patient-id", "", "patient ID")
	cmd.Flags().StringVar(&startAt, "start-at", "", "appointment time (RFC3339)")
	cmd.Flags().StringVar(&provider, "provider", "", "healthcare provider")
	cmd.Flags().StringVar(&location, "location", "", "appointment location")
	_ = cmd.MarkFlagRequired("patient-id")
	_ = cmd.MarkFlagRequired("start-at")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func newAppointmentsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			svc := appointment.NewService(app.Repos.Appointments, app.Repos.Patients)
			appointments, err := svc.List(cmd.Context(), 50)
			if err != nil {
				return err
			}
			if len(appointments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No appointments found")
				return nil
			}
			for _, a := range appointments {
				name := "Unknown"
				if p, err := app.Repos.Patients.Get(cmd.Context(), a.PatientID); err == nil {
					name = p.FullName
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %s  %-20s %s\n",
					shortID(a.ID), name, a.StartAt.Format("2006-01-02 15:04"),
					a.Provider, a.Status)
			}
			return nil
		}),
	}
}
