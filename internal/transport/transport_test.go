package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedIsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()

	outcomes := func(seed int64) []bool {
		tp := NewSimulated(0.5, seed)
		var out []bool
		for i := 0; i < 20; i++ {
			ok, err := tp.Deliver(ctx, "+15550001111", "hi")
			require.NoError(t, err)
			out = append(out, ok)
		}
		return out
	}

	assert.Equal(t, outcomes(42), outcomes(42))
}

func TestSimulatedExtremes(t *testing.T) {
	ctx := context.Background()

	always := NewSimulated(1.0, 1)
	never := NewSimulated(0.0, 1)
	for i := 0; i < 10; i++ {
		ok, err := always.Deliver(ctx, "+15550001111", "hi")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = never.Deliver(ctx, "+15550001111", "hi")
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestSequenceRepeatsLastOutcome(t *testing.T) {
	ctx := context.Background()
	tp := Sequence(false, true)

	got := make([]bool, 0, 4)
	for i := 0; i < 4; i++ {
		ok, err := tp.Deliver(ctx, "+15550001111", "hi")
		require.NoError(t, err)
		got = append(got, ok)
	}
	assert.Equal(t, []bool{false, true, true, true}, got)
}
