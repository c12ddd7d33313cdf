// Package classify labels free-text patient replies with an intent
// using keyword-category counts.
package classify

import "strings"

type Intent string

const (
	IntentConfirmed  Intent = "confirmed"
	IntentCancel     Intent = "cancel"
	IntentReschedule Intent = "reschedule"
	IntentUnknown    Intent = "unknown"
)

var confirmPatterns = []string{
	"yes", "yeah", "yep", "confirm", "confirmed", "ok", "okay", "sure",
	"definitely", "will be there", "see you", "attending", "accept",
}

var cancelPatterns = []string{
	"no", "nope", "cancel", "cancelled", "canceled", "stop", "end",
	"can't make it", "cannot come", "not coming", "unable to attend",
	"emergency", "sick", "ill",
}

var reschedulePatterns = []string{
	"reschedule", "move", "change", "different time", "another time",
	"different day", "not available",
}

// Classify counts keyword matches per category over the lowered
// message. A category needs a strict majority over both others to
// win; ties and all-zero counts yield IntentUnknown.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	confirm := countMatches(lower, confirmPatterns)
	cancel := countMatches(lower, cancelPatterns)
	reschedule := countMatches(lower, reschedulePatterns)

	switch {
	case confirm > cancel && confirm > reschedule:
		return IntentConfirmed
	case cancel > confirm && cancel > reschedule:
		return IntentCancel
	case reschedule > confirm && reschedule > cancel:
		return IntentReschedule
	default:
		return IntentUnknown
	}
}

// Confidence is "high" for any classified intent and "low" for
// unknown.
func Confidence(intent Intent) string {
	if intent == IntentUnknown {
		return "low"
	}
	return "high"
}

func countMatches(message string, patterns []string) int {
	n := 0
	for _, p := range patterns {
		if strings.Contains(message, p) {
			n++
		}
	}
	return n
}
