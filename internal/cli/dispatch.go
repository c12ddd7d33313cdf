package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/service/dispatch"
	"github.com/clinicops/reminderd/internal/transport"
)

func newDispatchCommand() *cobra.Command {
	var now bool

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Dispatch due reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !now {
				fmt.Fprintln(cmd.OutOrStdout(), "Use --now to dispatch due reminders")
				return nil
			}
			return withApp(runDispatch)(cmd, args)
		},
	}

	cmd.Flags().BoolVar(&now, "now", false, "dispatch due reminders immediately")
	return cmd
}

func runDispatch(cmd *cobra.Command, args []string, app *App) error {
	tp, err := buildTransport(app)
	if err != nil {
		return err
	}

	svc := dispatch.NewService(
		app.Repos.Reminders, app.Repos.Appointments, app.Repos.Patients,
		app.Repos.Templates, app.Recorder, tp,
		dispatch.Config{
			Backoff:       app.Cfg.Worker.RetryBackoff,
			DeliveryRate:  app.Cfg.Worker.DeliveryRate,
			DeliveryBurst: app.Cfg.Worker.DeliveryBurst,
			TemplateTTL:   app.Cfg.Worker.TemplateTTL,
		},
		app.Log)

	res, err := svc.DispatchDue(cmd.Context())
	if err != nil {
		return err
	}

	if res.Due == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No due reminders to dispatch")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dispatch complete: %d sent, %d failed, %d lost to other workers\n",
		res.Dispatched, res.Failed, res.ClaimsLost)
	return nil
}

// buildTransport selects the delivery channel from configuration.
func buildTransport(app *App) (transport.Transport, error) {
	switch app.Cfg.Transport.Kind {
	case "", "simulated":
		return transport.NewSimulated(app.Cfg.Transport.SuccessRate, time.Now().UnixNano()), nil
	case "smtp":
		return transport.NewSMTP(transport.SMTPConfig{
			Host:          app.Cfg.Transport.SMTPHost,
			Port:          app.Cfg.Transport.SMTPPort,
			Username:      app.Cfg.Transport.SMTPUser,
			Password:      app.Cfg.Transport.SMTPPass,
			From:          app.Cfg.Transport.From,
			GatewayDomain: "sms-gateway.local",
		}), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", app.Cfg.Transport.Kind)
	}
}
