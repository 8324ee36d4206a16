package notify

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"aitodo/internal/service"
)

// Player plays a single audio file.
type Player interface {
	Play(ctx context.Context, path string) error
}

// AudioChannel plays an alert sound, falling back through the
// configured sound files and finally a synthesized two-tone chime.
//
// Playback is gated on user interaction: attempts made before the first
// observed interaction are queued as a pending count and replayed at
// most once when an interaction arrives. The pending counter resets to
// zero only after a successful replay.
type AudioChannel struct {
	player  Player
	sources []string
	logger  *slog.Logger

	mu         sync.Mutex
	interacted bool
	pending    int
}

// NewAudioChannel creates an audio channel. sources are sound files
// tried in order before the synthesized chime.
func NewAudioChannel(player Player, sources []string, logger *slog.Logger) *AudioChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioChannel{player: player, sources: sources, logger: logger}
}

func (c *AudioChannel) Name() string { return "audio" }

// Alert plays the alert sound, or queues it if no user interaction has
// been observed yet.
func (c *AudioChannel) Alert(ctx context.Context, r service.Reminder) error {
	c.mu.Lock()
	if !c.interacted {
		c.pending++
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.play(ctx)
}

// MarkInteracted records that a user interaction happened and replays a
// queued alert, once, if any are pending.
func (c *AudioChannel) MarkInteracted(ctx context.Context) {
	c.mu.Lock()
	c.interacted = true
	pending := c.pending
	c.mu.Unlock()

	if pending == 0 {
		return
	}
	if err := c.play(ctx); err != nil {
		// Counter stays up so a later interaction can retry.
		c.logger.Warn("queued alert replay failed", "err", err)
		return
	}
	c.mu.Lock()
	c.pending = 0
	c.mu.Unlock()
}

// Pending returns the number of queued playback triggers.
func (c *AudioChannel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// play walks the fallback ladder: configured sounds in order, then the
// synthesized chime.
func (c *AudioChannel) play(ctx context.Context) error {
	for _, src := range c.sources {
		if err := c.player.Play(ctx, src); err == nil {
			return nil
		} else {
			c.logger.Debug("sound source unavailable", "source", src, "err", err)
		}
	}

	path, err := writeChimeFile()
	if err != nil {
		return err
	}
	defer os.Remove(path)
	return c.player.Play(ctx, path)
}
