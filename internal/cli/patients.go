package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/service/patient"
)

func newPatientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Manage patients",
	}
	cmd.AddCommand(newPatientsAddCommand())
	cmd.AddCommand(newPatientsListCommand())
	return cmd
}

func newPatientsAddCommand() *cobra.Command {
	var (
		name  string
		phone string
		tz    string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new patient",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			svc := patient.NewService(app.Repos.Patients)
			p, err := svc.Create(cmd.Context(), &model.CreatePatientRequest{
				FullName: name,
				Phone:    phone,
				Timezone: tz,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Patient created: %s\n", p.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "patient full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone in E.164 format")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("tz")

	return cmd
}

func newPatientsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			svc := patient.NewService(app.Repos.Patients)
			patients, err := svc.List(cmd.Context(), 50)
			if err != nil {
				return err
			}
			if len(patients) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No patients found")
				return nil
			}
			for _, p := range patients {
				active := "active"
				if !p.Active {
					active = "inactive"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %-15s %-20s %s\n",
					shortID(p.ID), p.FullName, p.Phone, p.Timezone, active)
			}
			return nil
		}),
	}
}
