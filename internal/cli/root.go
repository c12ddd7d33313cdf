// Package cli implements the reminderctl command tree.
package cli

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/clinicops/reminderd/internal/config"
	"github.com/clinicops/reminderd/internal/repository/postgres"
	"github.com/clinicops/reminderd/internal/service/eventlog"
	"github.com/clinicops/reminderd/pkg/logger"
	"github.com/clinicops/reminderd/pkg/messaging"
	redisbroker "github.com/clinicops/reminderd/pkg/messaging/redis"
)

// App carries the shared wiring every command needs: configuration,
// store handles and the event recorder.
type App struct {
	Cfg      *config.Config
	Log      *logger.Logger
	DB       *sqlx.DB
	Repos    *postgres.Repositories
	Broker   messaging.Broker
	Recorder *eventlog.Recorder
}

// NewRootCommand creates the root command for the reminderctl CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reminderctl",
		Short:         "Appointment reminder workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newPatientsCommand())
	cmd.AddCommand(newAppointmentsCommand())
	cmd.AddCommand(newTemplatesCommand())
	cmd.AddCommand(newScheduleCommand())
	cmd.AddCommand(newDispatchCommand())
	cmd.AddCommand(newRepliesCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newSeedCommand())

	return cmd
}

// withApp wires configuration, database and broker, runs fn, and
// tears everything down afterwards.
func withApp(fn func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level, err := parseLevel(cfg.Logging.Level)
		if err != nil {
			return err
		}
		log := logger.NewLogger(&logger.Config{Level: level, Console: true, Output: cmd.ErrOrStderr()})

		db, err := postgres.NewDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := postgres.Migrate(db); err != nil {
			return err
		}

		var broker messaging.Broker
		if cfg.Redis.Enabled {
			broker, err = redisbroker.NewBroker(redisbroker.Config{
				URL:          cfg.Redis.URL,
				MaxRetries:   cfg.Redis.MaxRetries,
				PoolSize:     cfg.Redis.PoolSize,
				MinIdleConns: cfg.Redis.MinIdleConns,
			})
			if err != nil {
				return err
			}
			defer broker.Close()
		}

		repos := postgres.NewRepositories(db)
		app := &App{
			Cfg:      cfg,
			Log:      log,
			DB:       db,
			Repos:    repos,
			Broker:   broker,
			Recorder: eventlog.NewRecorder(repos.Events, broker, log),
		}
		return fn(cmd, args, app)
	}
}

func parseLevel(level string) (logger.Level, error) {
	switch level {
	case "debug":
		return logger.DebugLevel, nil
	case "", "info":
		return logger.InfoLevel, nil
	case "warn":
		return logger.WarnLevel, nil
	case "error":
		return logger.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// parseDateRange turns two YYYY-MM-DD dates into the closed UTC range
// [from 00:00:00, to 23:59:59].
func parseDateRange(fromDate, toDate string) (time.Time, time.Time, error) {
	from, err := time.Parse(time.DateOnly, fromDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: use YYYY-MM-DD", fromDate)
	}
	to, err := time.Parse(time.DateOnly, toDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: use YYYY-MM-DD", toDate)
	}
	return from.UTC(), to.UTC().Add(24*time.Hour - time.Second), nil
}
