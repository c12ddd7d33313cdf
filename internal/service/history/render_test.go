package history

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinicops/reminderd/internal/model"
)

func TestFormatEvent(t *testing.T) {
	occurredAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event *model.Event
		want  string
	}{
		{
			name: "status changed",
			event: &model.Event{
				OccurredAt: occurredAt,
				Type:       model.EventTypeStatusChanged,
				Payload:    model.Payload{"previous_status": "scheduled", "new_status": "confirmed"},
			},
			want: "06/01 09:30 | status_changed       | scheduled -> confirmed",
		},
		{
			name: "reminder scheduled",
			event: &model.Event{
				OccurredAt: occurredAt,
				Type:       model.EventTypeReminderScheduled,
				Payload:    model.Payload{"offset_days": 7},
			},
			want: "06/01 09:30 | reminder_scheduled   | Offset: 7 days",
		},
		{
			name: "reminder dispatched",
			event: &model.Event{
				OccurredAt: occurredAt,
				Type:       model.EventTypeReminderDispatched,
				Payload:    model.Payload{"message_preview": "Hi Maria, your appointment"},
			},
			want: "06/01 09:30 | reminder_dispatched  | SMS: Hi Maria, your appointment",
		},
		{
			name: "reply with classification",
			event: &model.Event{
				OccurredAt: occurredAt,
				Type:       model.EventTypeReplyReceived,
				Payload: model.Payload{
					"message":        "yes",
					"classification": map[string]interface{}{"intent": "confirmed"},
				},
			},
			want: "06/01 09:30 | reply_received       | Reply: yes -> confirmed",
		},
		{
			name: "error",
			event: &model.Event{
				OccurredAt: occurredAt,
				Type:       model.EventTypeError,
				Payload:    model.Payload{"error": "delivery rejected by transport"},
			},
			want: "06/01 09:30 | error                | Error: delivery rejected by transport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEvent(tt.event))
		})
	}
}

func TestFormatEventTruncatesLongPreviews(t *testing.T) {
	event := &model.Event{
		OccurredAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		Type:       model.EventTypeReminderDispatched,
		Payload:    model.Payload{"message_preview": strings.Repeat("x", 80)},
	}

	got := FormatEvent(event)
	assert.Contains(t, got, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, got, strings.Repeat("x", 51))
}

func TestLines(t *testing.T) {
	h := &History{
		Events: []*model.Event{
			{
				OccurredAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
				Type:       model.EventTypeStatusChanged,
				Payload:    model.Payload{"previous_status": "scheduled", "new_status": "canceled"},
			},
		},
	}

	lines := h.Lines()
	assert.Equal(t, []string{"06/01 09:30 | status_changed       | scheduled -> canceled"}, lines)
}
