package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/service/report"
)

func newReportCommand() *cobra.Command {
	var (
		fromDate string
		toDate   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "report [type]",
		Short: "Generate reports (type: reminders)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			reportType := "reminders"
			if len(args) == 1 {
				reportType = args[0]
			}
			if reportType != "reminders" {
				return fmt.Errorf("unknown report type %q", reportType)
			}

			from, to, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}

			svc := report.NewService(app.Repos.Reminders, app.Repos.Appointments, app.Repos.Patients)
			rows, err := svc.Reminders(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reminders found for the specified date range")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Reminders report: %s to %s (%d reminders)\n",
				fromDate, toDate, len(rows))
			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s  %-24s offset=%dd scheduled=%s status=%s attempts=%d\n",
					row.ReminderID[:8], row.PatientName, row.OffsetDays,
					row.ScheduledFor[:16], row.Status, row.Attempts)
			}

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				if err := report.WriteCSV(f, rows); err != nil {
					return fmt.Errorf("failed to export CSV: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report exported to: %s\n", output)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV file path")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
