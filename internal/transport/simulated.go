package transport

import (
	"context"
	"math/rand"
	"sync"
)

// Simulated is a fake transport that succeeds with a configured
// probability. The RNG is injectable so tests can run deterministic
// success/failure sequences.
type Simulated struct {
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulated(successRate float64, seed int64) *Simulated {
	return &Simulated{
		successRate: successRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *Simulated) Deliver(ctx context.Context, phone, message string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < s.successRate, nil
}

// Fixed returns a transport with a predetermined outcome for every
// delivery. Used by tests and by dry runs.
func Fixed(ok bool) Transport {
	return Func(func(ctx context.Context, phone, message string) (bool, error) {
		return ok, nil
	})
}

// Sequence returns a transport that replays the given outcomes in
// order, then repeats the last one.
func Sequence(outcomes ...bool) Transport {
	var mu sync.Mutex
	i := 0
	return Func(func(ctx context.Context, phone, message string) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		ok := outcomes[i]
		if i < len(outcomes)-1 {
			i++
		}
		return ok, nil
	})
}
