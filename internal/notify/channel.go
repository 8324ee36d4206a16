// Package notify implements the reminder delivery engine: a timer-driven
// poller that discovers pending reminders, deduplicates them against the
// persisted notified set, and escalates alerts across notification
// channels with graceful degradation.
package notify

import (
	"context"

	"aitodo/internal/service"
)

// Channel is one alerting modality. Channels are tried in a fixed order
// by the escalator; a failing channel never blocks the ones after it.
type Channel interface {
	// Name identifies the channel in logs.
	Name() string

	// Alert attempts to alert the user about the reminder.
	Alert(ctx context.Context, r service.Reminder) error
}
