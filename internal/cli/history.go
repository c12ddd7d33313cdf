package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/service/history"
)

func newHistoryCommand() *cobra.Command {
	var appointmentID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the full event history of an appointment",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			id, err := uuid.Parse(appointmentID)
			if err != nil {
				return fmt.Errorf("invalid appointment id: %w", err)
			}

			svc := history.NewService(app.Repos.Appointments, app.Repos.Patients, app.Repos.Events)
			h, err := svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Appointment %s\n", shortID(h.Appointment.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Patient:    %s\n", h.PatientName)
			fmt.Fprintf(cmd.OutOrStdout(), "Provider:   %s\n", h.Appointment.Provider)
			fmt.Fprintf(cmd.OutOrStdout(), "Start:      %s\n", h.Appointment.StartAt.Format("2006-01-02 15:04 MST"))
			fmt.Fprintf(cmd.OutOrStdout(), "Status:     %s (version %d)\n",
				h.Appointment.Status, h.Appointment.Version)
			fmt.Fprintln(cmd.OutOrStdout())

			if len(h.Events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events recorded for this appointment")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History (%d events):\n", len(h.Events))
			for _, line := range h.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+line)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&appointmentID, "appointment", "", "appointment ID")
	_ = cmd.MarkFlagRequired("appointment")

	return cmd
}
