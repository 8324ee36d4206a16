package commands

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"aitodo/internal/config"
	"aitodo/internal/notified"
	"aitodo/internal/notify"
	"aitodo/internal/testutil"
)

func TestSettingsPermissionsPersist(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	settings := config.DefaultSettings()
	perms := &settingsPermissions{cfg: cfg, settings: settings}

	if got := perms.Permission(); got != config.PermissionUndetermined {
		t.Errorf("initial permission = %q", got)
	}

	if err := perms.SetPermission(config.PermissionDenied); err != nil {
		t.Fatalf("SetPermission failed: %v", err)
	}
	if got := perms.Permission(); got != config.PermissionDenied {
		t.Errorf("permission = %q, want denied", got)
	}

	// A fresh load sees the persisted state, so the next run never
	// re-prompts.
	reloaded, err := cfg.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Notifications != config.PermissionDenied {
		t.Errorf("persisted state = %q, want denied", reloaded.Notifications)
	}
}

func TestWatchSettingsRestartsOnlyOnIntervalChange(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	settings := config.DefaultSettings()
	settings.PollInterval = "10s"
	if err := cfg.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	fake := testutil.NewFakeService()
	store, err := notified.Open(cfg.NotifiedDBPath())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	poller := notify.NewPoller(fake, store, notify.NewEscalator(logger), logger)
	defer poller.Stop()

	interval := settings.Interval()
	poller.Start(interval)
	waitForCalls(t, fake, 1)

	cmd := &WatchCmd{}
	stop, err := cmd.watchSettings(cfg, poller, interval, logger)
	if err != nil {
		t.Fatalf("watchSettings failed: %v", err)
	}
	defer stop()

	// A write that leaves poll_interval alone, like the permission state
	// being persisted, must not restart the poller.
	settings.Notifications = config.PermissionGranted
	if err := cfg.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	time.Sleep(700 * time.Millisecond)
	if got := fake.PendingCallCount(); got != 1 {
		t.Fatalf("unchanged interval restarted the poller: %d polls", got)
	}

	// Changing the interval restarts it, which shows up as the restart's
	// immediate poll.
	settings.PollInterval = "30s"
	if err := cfg.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	waitForCalls(t, fake, 2)
}

// waitForCalls polls until the fake has seen n pending-reminder fetches.
func waitForCalls(t *testing.T, fake *testutil.FakeService, n int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if fake.PendingCallCount() >= n {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("poll count never reached %d (got %d)", n, fake.PendingCallCount())
}
