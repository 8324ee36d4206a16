package notify

import (
	"context"
	"log/slog"

	"aitodo/internal/config"
	"aitodo/internal/service"
)

// Notifier sends platform notifications.
type Notifier interface {
	// Send shows a notification.
	Send(ctx context.Context, title, body string) error

	// Request asks for notification permission. Returns whether it was
	// granted.
	Request(ctx context.Context) (bool, error)
}

// Permissions persists the notification permission state across runs.
type Permissions interface {
	Permission() string
	SetPermission(state string) error
}

// DesktopChannel shows a platform notification when permission allows.
// Permission is requested once while undetermined; a denial is
// persisted and never re-prompted.
type DesktopChannel struct {
	notifier Notifier
	perms    Permissions
	logger   *slog.Logger
}

// NewDesktopChannel creates a desktop notification channel.
func NewDesktopChannel(notifier Notifier, perms Permissions, logger *slog.Logger) *DesktopChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &DesktopChannel{notifier: notifier, perms: perms, logger: logger}
}

func (c *DesktopChannel) Name() string { return "desktop" }

// Alert shows the reminder as a notification, honoring the permission
// state machine.
func (c *DesktopChannel) Alert(ctx context.Context, r service.Reminder) error {
	switch c.perms.Permission() {
	case config.PermissionDenied:
		// Silently downgrade to the other channels.
		return nil
	case config.PermissionGranted:
	default:
		granted, err := c.notifier.Request(ctx)
		if err != nil {
			return err
		}
		state := config.PermissionDenied
		if granted {
			state = config.PermissionGranted
		}
		if err := c.perms.SetPermission(state); err != nil {
			c.logger.Warn("persist notification permission failed", "err", err)
		}
		if !granted {
			return nil
		}
	}

	return c.notifier.Send(ctx, r.Title, r.Message)
}
