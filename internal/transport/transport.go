// Package transport abstracts message delivery so the dispatch engine
// can run against a real channel or a simulator.
package transport

import "context"

// Transport delivers one rendered message to a phone number. ok=false
// with a nil error means the channel rejected the message; err means
// the attempt itself could not be made. Both are retryable from the
// dispatch engine's point of view.
type Transport interface {
	Deliver(ctx context.Context, phone, message string) (ok bool, err error)
}

// Func adapts a function to the Transport interface, handy in tests.
type Func func(ctx context.Context, phone, message string) (bool, error)

func (f Func) Deliver(ctx context.Context, phone, message string) (bool, error) {
	return f(ctx, phone, message)
}
