// Package eventlog is the write path to the append-only event log.
package eventlog

import (
	"context"

	"github.com/clinicops/reminderd/internal/model"
	"github.com/clinicops/reminderd/internal/repository"
	"github.com/clinicops/reminderd/pkg/logger"
	"github.com/clinicops/reminderd/pkg/messaging"
	"github.com/clinicops/reminderd/pkg/metrics"
)

// Channel is the broker channel domain events are published on.
const Channel = "reminder.events"

// Recorder appends events to the log and, when a broker is
// configured, publishes them for downstream consumers. Publishing is
// best effort: a broker failure is logged and never fails the append.
type Recorder struct {
	repo    repository.EventRepository
	broker  messaging.Broker
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewRecorder(repo repository.EventRepository, broker messaging.Broker, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{repo: repo, broker: broker, logger: log}
}

// WithMetrics enables append counters, used by the worker.
func (r *Recorder) WithMetrics(m *metrics.Metrics) *Recorder {
	r.metrics = m
	return r
}

func (r *Recorder) Record(ctx context.Context, event *model.Event) error {
	if err := r.repo.Append(ctx, event); err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.EventsAppended.WithLabelValues(string(event.Type)).Inc()
	}

	if r.broker != nil {
		if err := r.broker.Publish(ctx, Channel, event); err != nil {
			r.logger.Warn("failed to publish event",
				"event_id", event.ID.String(),
				"event_type", string(event.Type),
				"error", err.Error())
		}
	}
	return nil
}
