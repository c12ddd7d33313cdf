package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/service/template"
)

func newTemplatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage message templates",
	}
	cmd.AddCommand(newTemplatesAddCommand())
	cmd.AddCommand(newTemplatesListCommand())
	return cmd
}

func newTemplatesAddCommand() *cobra.Command {
	var (
		name string
		body string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new template",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			svc := template.NewService(app.Repos.Templates)
			t, err := svc.Create(cmd.Context(), &model.CreateTemplateRequest{
				Name: name,
				Body: body,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Template created: %s\n", t.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "template name")
	cmd.Flags().StringVar(&body, "body", "", "template body")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("body")

	return cmd
}

func newTemplatesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: withApp(func(cmd *cobra.Command, args []string, app *App) error {
			svc := template.NewService(app.Repos.Templates)
			templates, err := svc.List(cmd.Context(), 20)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found")
				return nil
			}
			for _, t := range templates {
				preview := t.Body
				if len(preview) > 50 {
					preview = preview[:50] + "..."
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s: %s\n", shortID(t.ID), t.Name, preview)
			}
			return nil
		}),
	}
}
