package notify

import (
	"context"
	"log/slog"
	"time"

	"aitodo/internal/service"
)

// Vibrator abstracts platform tactile feedback. Platforms without it
// pass nil and the channel becomes a no-op.
type Vibrator interface {
	Vibrate(ctx context.Context, d time.Duration) error
}

// TactileChannel triggers tactile feedback when the platform exposes
// it. Strictly best-effort: failures are logged and swallowed.
type TactileChannel struct {
	vibrator Vibrator
	logger   *slog.Logger
}

// NewTactileChannel creates a tactile channel. vibrator may be nil.
func NewTactileChannel(vibrator Vibrator, logger *slog.Logger) *TactileChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &TactileChannel{vibrator: vibrator, logger: logger}
}

func (c *TactileChannel) Name() string { return "tactile" }

// Alert never returns an error; tactile feedback is best-effort.
func (c *TactileChannel) Alert(ctx context.Context, r service.Reminder) error {
	if c.vibrator == nil {
		return nil
	}
	if err := c.vibrator.Vibrate(ctx, 200*time.Millisecond); err != nil {
		c.logger.Debug("tactile feedback failed", "reminder", r.ID, "err", err)
	}
	return nil
}
