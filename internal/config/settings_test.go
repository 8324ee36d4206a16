package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}

	s, err := cfg.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.APIBaseURL != "http://localhost:8000/api" {
		t.Errorf("APIBaseURL = %q", s.APIBaseURL)
	}
	if s.Notifications != PermissionUndetermined {
		t.Errorf("Notifications = %q, want undetermined", s.Notifications)
	}
	if got := s.Interval(); got != 10*time.Second {
		t.Errorf("Interval = %v, want 10s", got)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}

	in := Settings{
		APIBaseURL:    "https://todo.example.com/api",
		GoalID:        7,
		PollInterval:  "30s",
		Sounds:        []string{"/usr/share/sounds/ding.wav"},
		Notifications: PermissionGranted,
	}
	if err := cfg.SaveSettings(in); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	out, err := cfg.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if out.APIBaseURL != in.APIBaseURL || out.GoalID != 7 || out.Notifications != PermissionGranted {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if got := out.Interval(); got != 30*time.Second {
		t.Errorf("Interval = %v, want 30s", got)
	}
	if len(out.Sounds) != 1 || out.Sounds[0] != in.Sounds[0] {
		t.Errorf("Sounds = %v", out.Sounds)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}
	yaml := "goal_id: 3\n"
	if err := os.WriteFile(cfg.SettingsPath(), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := cfg.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.GoalID != 3 {
		t.Errorf("GoalID = %d, want 3", s.GoalID)
	}
	if s.APIBaseURL == "" {
		t.Error("empty APIBaseURL should fall back to the default")
	}
	if s.Notifications != PermissionUndetermined {
		t.Errorf("Notifications = %q, want undetermined", s.Notifications)
	}
}

func TestLoadSettingsMalformedFile(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}
	if err := os.WriteFile(cfg.SettingsPath(), []byte("{not yaml"), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := cfg.LoadSettings()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if s.APIBaseURL != DefaultSettings().APIBaseURL {
		t.Errorf("malformed file should yield defaults, got %+v", s)
	}
}

func TestIntervalFallback(t *testing.T) {
	cases := []string{"", "soon", "-5s", "0s"}
	for _, c := range cases {
		s := Settings{PollInterval: c}
		if got := s.Interval(); got != 10*time.Second {
			t.Errorf("Interval(%q) = %v, want 10s fallback", c, got)
		}
	}
}
