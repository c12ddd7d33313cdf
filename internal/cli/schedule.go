package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/service/scheduler"
)

func newScheduleCommand() *cobra.Command {
	var (
		fromDate string
		toDate   string
		offsets  string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule reminders for appointments in a date range",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			from, to, err := parseDateRange(fromDate, toDate)
			if err != nil {
				return err
			}
			offsetDays := app.Cfg.Worker.DefaultOffsets
			if cmd.Flags().Changed("offsets") {
				offsetDays, err = parseOffsets(offsets)
				if err != nil {
					return err
				}
			}

			svc := scheduler.NewService(
				app.Repos.Appointments, app.Repos.Patients, app.Repos.Reminders,
				app.Recorder, app.Log)
			res, err := svc.Schedule(cmd.Context(), from, to, offsetDays)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Summary: created %d reminders, skipped %d\n",
				res.Created, res.Skipped)
			return nil
		}),
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&offsets, "offsets", "7,2", "comma-separated offset days (default from config)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func parseOffsets(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	offsets := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q: %w", part, err)
		}
		offsets = append(offsets, n)
	}
	return offsets, nil
}
