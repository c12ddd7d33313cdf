package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicops/reminderd/internal/config"
	"github.com/clinicops/reminderd/internal/repository/postgres"
	"github.com/clinicops/reminderd/internal/service/dispatch"
	"github.com/clinicops/reminderd/internal/service/eventlog"
	"github.com/clinicops/reminderd/internal/transport"
	"github.com/clinicops/reminderd/pkg/logger"
	"github.com/clinicops/reminderd/pkg/messaging"
	redisbroker "github.com/clinicops/reminderd/pkg/messaging/redis"
	"github.com/clinicops/reminderd/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := parseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.NewLogger(&logger.Config{Level: level, Output: os.Stdout})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(db); err != nil {
		log.Fatal(err, "failed to run migrations")
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
			log.Fatal(err, "failed to connect to redis")
		}
		defer broker.Close()
	}

	tp, err := buildTransport(cfg.Transport)
	if err != nil {
		log.Fatal(err, "failed to build transport")
	}

	m := metrics.New("reminderd")
	repos := postgres.NewRepositories(db)
	recorder := eventlog.NewRecorder(repos.Events, broker, log).WithMetrics(m)

	svc := dispatch.NewService(
		repos.Reminders, repos.Appointments, repos.Patients,
		repos.Templates, recorder, tp,
		dispatch.Config{
			Backoff:       cfg.Worker.RetryBackoff,
			DeliveryRate:  cfg.Worker.DeliveryRate,
			DeliveryBurst: cfg.Worker.DeliveryBurst,
			TemplateTTL:   cfg.Worker.TemplateTTL,
		},
		log)

	startMetricsServer(cfg.Worker.MetricsAddr, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("dispatch worker started",
		"poll_interval", cfg.Worker.PollInterval.String(),
		"transport", cfg.Transport.Kind)
	run(ctx, svc, m, cfg.Worker.PollInterval, log)
	log.Info("dispatch worker stopped")
}

// run polls for due reminders until the context is canceled. One run
// fires immediately so a fresh worker drains the backlog without
// waiting out the first tick.
func run(ctx context.Context, svc *dispatch.Service, m *metrics.Metrics, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		dispatchOnce(ctx, svc, m, log)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func dispatchOnce(ctx context.Context, svc *dispatch.Service, m *metrics.Metrics, log *logger.Logger) {
	timer := prometheus.NewTimer(m.DispatchDuration)
	defer timer.ObserveDuration()

	res, err := svc.DispatchDue(ctx)
	if err != nil {
		log.Error(err, "dispatch run failed")
		return
	}

	m.DueReminders.Set(float64(res.Due))
	m.RemindersDispatched.Add(float64(res.Dispatched))
	m.RemindersFailed.Add(float64(res.Failed))
	m.ClaimsLost.Add(float64(res.ClaimsLost))

	if res.Due > 0 {
		log.Info("dispatch run complete",
			"due", res.Due,
			"dispatched", res.Dispatched,
			"failed", res.Failed,
			"claims_lost", res.ClaimsLost)
	}
}

func startMetricsServer(addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error(err, "metrics server failed")
			os.Exit(1)
		}
	}()
}

func buildTransport(cfg config.TransportConfig) (transport.Transport, error) {
	switch cfg.Kind {
	case "", "simulated":
		return transport.NewSimulated(cfg.SuccessRate, time.Now().UnixNano()), nil
	case "smtp":
		return transport.NewSMTP(transport.SMTPConfig{
			Host:          cfg.SMTPHost,
			Port:          cfg.SMTPPort,
			Username:      cfg.SMTPUser,
			Password:      cfg.SMTPPass,
			From:          cfg.From,
			GatewayDomain: "sms-gateway.local",
		}), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
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
