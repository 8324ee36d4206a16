package notify

import (
	"context"
	"log/slog"

	"aitodo/internal/service"
)

// Escalator attempts alert delivery across an ordered list of channels.
// Channel failures are independent: every channel is attempted
// regardless of earlier failures, and failures are logged, not
// propagated.
type Escalator struct {
	channels []Channel
	logger   *slog.Logger
}

// NewEscalator creates an escalator over the given channels, tried in
// argument order.
func NewEscalator(logger *slog.Logger, channels ...Channel) *Escalator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Escalator{channels: channels, logger: logger}
}

// Alert runs the reminder through every channel in order.
func (e *Escalator) Alert(ctx context.Context, r service.Reminder) {
	for _, ch := range e.channels {
		if err := ch.Alert(ctx, r); err != nil {
			e.logger.Warn("alert channel failed",
				"channel", ch.Name(), "reminder", r.ID, "err", err)
		}
	}
}
