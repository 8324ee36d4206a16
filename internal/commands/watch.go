package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"aitodo/internal/config"
	"aitodo/internal/exitcode"
	"aitodo/internal/notified"
	"aitodo/internal/notify"
	"aitodo/internal/output"
	"aitodo/internal/service"
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: runs the reminder delivery
// engine in the foreground until interrupted. Delivered reminders are
// printed as they arrive. SIGCONT (the process returning to the
// foreground) triggers an immediate out-of-cycle poll, and edits to
// settings.yaml restart the poller with the new interval.
type WatchCmd struct {
	interval time.Duration

	// Stdin is the interaction source; os.Stdin unless a test
	// substitutes it.
	Stdin io.Reader
}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Run the reminder delivery engine" }
func (c *WatchCmd) Usage() string     { return "aitodo watch [--interval <duration>]" }
func (c *WatchCmd) NeedsAuth() bool   { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", 0, "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	logger := newLogger(cfg, errOut)

	settings, err := cfg.LoadSettings()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	interval := c.interval
	if interval <= 0 {
		interval = settings.Interval()
	}

	store, err := notified.Open(cfg.NotifiedDBPath())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer store.Close()

	perms := &settingsPermissions{cfg: cfg, settings: settings}
	audio := notify.NewAudioChannel(notify.ExecPlayer{}, settings.Sounds, logger)
	escalator := notify.NewEscalator(logger,
		notify.NewTactileChannel(nil, logger),
		audio,
		notify.NewDesktopChannel(notify.ExecNotifier{}, perms, logger),
	)

	poller := notify.NewPoller(svc, store, escalator, logger)
	defer poller.Stop()

	unsubscribe := poller.Subscribe(func(r service.Reminder) {
		output.FormatReminder(out, r)
	})
	defer unsubscribe()

	// Returning to the foreground maps to the out-of-cycle poll a
	// browser client runs on visibility regain.
	fg := make(chan os.Signal, 1)
	signal.Notify(fg, syscall.SIGCONT)
	defer signal.Stop(fg)
	go func() {
		for range fg {
			poller.Wake()
		}
	}()

	// Any input counts as the first user interaction, which unlocks
	// queued audio.
	stdin := c.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	go func() {
		reader := bufio.NewReader(stdin)
		for {
			if _, err := reader.ReadByte(); err != nil {
				return
			}
			audio.MarkInteracted(ctx)
		}
	}()

	poller.Start(interval)
	if !cfg.Quiet {
		fmt.Fprintf(errOut, "watching reminders every %s (ctrl-c to stop)\n", interval)
	}

	stopReload, err := c.watchSettings(cfg, poller, interval, logger)
	if err != nil {
		logger.Warn("settings watch unavailable", "err", err)
	} else {
		defer stopReload()
	}

	<-ctx.Done()
	return exitcode.Success
}

// watchSettings reloads settings.yaml on change and restarts the
// poller when the interval differs. Debounced so editor write bursts
// reload once.
func (c *WatchCmd) watchSettings(cfg *config.Config, poller *notify.Poller, startInterval time.Duration, logger *slog.Logger) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(cfg.Dir); err != nil {
		watcher.Close()
		return nil, err
	}

	// Compare against the interval the poller actually started with, so
	// settings writes that leave poll_interval alone (like the
	// permission state being persisted) don't restart it.
	current := startInterval
	done := make(chan struct{})
	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != cfg.SettingsPath() {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(200*time.Millisecond, func() {
					settings, err := cfg.LoadSettings()
					if err != nil {
						logger.Warn("settings reload failed", "err", err)
						return
					}
					next := settings.Interval()
					if c.interval > 0 || next == current {
						return
					}
					current = next
					logger.Info("poll interval changed", "interval", next)
					poller.Start(next)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("settings watch error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

// settingsPermissions persists the desktop notification permission
// state in settings.yaml.
type settingsPermissions struct {
	cfg *config.Config

	mu       sync.Mutex
	settings config.Settings
}

func (p *settingsPermissions) Permission() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings.Notifications
}

func (p *settingsPermissions) SetPermission(state string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.Notifications = state
	return p.cfg.SaveSettings(p.settings)
}
