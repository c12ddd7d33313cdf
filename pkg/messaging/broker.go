package messaging

import (
	"context"
)

// Broker publishes domain events to downstream consumers. A nil
// Broker is valid and means publishing is disabled.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}
