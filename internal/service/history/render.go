package history

import (
	"fmt"

	"github.com/clinicops/reminderd/internal/model"
)

const (
	lineTimeLayout = "01/02 15:04"
	previewLength  = 50
)

// Lines renders the history one formatted line per event.
func (h *History) Lines() []string {
	lines := make([]string, 0, len(h.Events))
	for _, event := range h.Events {
		lines = append(lines, FormatEvent(event))
	}
	return lines
}

// FormatEvent renders one event as a narrative line.
func FormatEvent(event *model.Event) string {
	return fmt.Sprintf("%s | %-20s | %s",
		event.OccurredAt.Format(lineTimeLayout),
		event.Type,
		eventDetails(event))
}

func eventDetails(event *model.Event) string {
	p := event.Payload
	switch event.Type {
	case model.EventTypeStatusChanged:
		return fmt.Sprintf("%s -> %s",
			orUnknown(p.GetString("previous_status")),
			orUnknown(p.GetString("new_status")))
	case model.EventTypeReminderScheduled:
		return fmt.Sprintf("Offset: %v days", p["offset_days"])
	case model.EventTypeReminderDispatched:
		return fmt.Sprintf("SMS: %s", truncate(p.GetString("message_preview"), previewLength))
	case model.EventTypeReplyReceived:
		details := fmt.Sprintf("Reply: %s", truncate(p.GetString("message"), previewLength))
		if c, ok := p["classification"].(map[string]interface{}); ok {
			if intent, ok := c["intent"].(string); ok {
				details += fmt.Sprintf(" -> %s", intent)
			}
		}
		return details
	case model.EventTypeClassification:
		return fmt.Sprintf("Intent: %s (conf: %s)",
			p.GetString("intent"), p.GetString("confidence"))
	case model.EventTypeError:
		return fmt.Sprintf("Error: %s", p.GetString("error"))
	default:
		return ""
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
