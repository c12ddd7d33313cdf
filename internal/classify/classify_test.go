package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"plain yes", "Yes, confirmed, see you then", IntentConfirmed},
		{"cancel emergency", "Sorry, family emergency, cannot come", IntentCancel},
		{"reschedule request", "Can we reschedule to a different day?", IntentReschedule},
		{"empty message", "", IntentUnknown},
		{"no keywords", "What is the parking situation?", IntentUnknown},
		// "no" is a cancel keyword but "not available" plus
		// "another time" outvote it.
		{"reschedule outvotes cancel", "I'm not available, can we do another time? no rush", IntentReschedule},
		{"case insensitive", "YES I CONFIRM", IntentConfirmed},
		{"substring match", "okay!", IntentConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestClassifyTieYieldsUnknown(t *testing.T) {
	// One confirm keyword ("yes") and one cancel keyword ("cancel"):
	// no strict majority, so the classifier must not pick a side.
	got := Classify("yes cancel")
	assert.Equal(t, IntentUnknown, got)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, "high", Confidence(IntentConfirmed))
	assert.Equal(t, "high", Confidence(IntentCancel))
	assert.Equal(t, "high", Confidence(IntentReschedule))
	assert.Equal(t, "low", Confidence(IntentUnknown))
}
