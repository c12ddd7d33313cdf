package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/service/reply"
)

func newRepliesCommand() *cobra.Command {
	var classifyReplies bool

	cmd := &cobra.Command{
		Use:   "replies <csv-file>",
		Short: "Import and process patient replies from CSV",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			svc := reply.NewService(
				app.Repos.Patients, app.Repos.Appointments, app.Recorder, app.Log)

			res, err := svc.ProcessFile(cmd.Context(), args[0], classifyReplies)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Import complete: %d processed, %d status changes, %d errors\n",
				res.Processed, res.StatusChanges, res.Errors)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&classifyReplies, "classify", true, "classify replies and update appointment status")
	return cmd
}
