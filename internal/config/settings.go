package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Notification permission states. Once denied, the desktop channel is
// skipped permanently and never re-prompts.
const (
	PermissionUndetermined = "undetermined"
	PermissionGranted      = "granted"
	PermissionDenied       = "denied"
)

// Settings holds user-editable settings loaded from settings.yaml.
type Settings struct {
	// APIBaseURL is the base URL of the AI Todo backend, including the
	// /api prefix.
	APIBaseURL string `yaml:"api_base_url"`

	// GoalID selects which goal's task forest commands operate on.
	GoalID int `yaml:"goal_id"`

	// PollInterval is the reminder poll interval as a Go duration string.
	PollInterval string `yaml:"poll_interval"`

	// Sounds are alert sound files tried in order before falling back to
	// the synthesized chime.
	Sounds []string `yaml:"sounds,omitempty"`

	// Notifications is the desktop notification permission state.
	Notifications string `yaml:"notifications"`
}

// DefaultSettings returns settings used when no settings.yaml exists.
func DefaultSettings() Settings {
	return Settings{
		APIBaseURL:    "http://localhost:8000/api",
		PollInterval:  "10s",
		Notifications: PermissionUndetermined,
	}
}

// Interval parses PollInterval, falling back to the 10s default on
// empty or malformed values.
func (s Settings) Interval() time.Duration {
	d, err := time.ParseDuration(s.PollInterval)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// LoadSettings reads settings.yaml from the config directory. A missing
// file is not an error; defaults are returned.
func (c *Config) LoadSettings() (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(c.SettingsPath())
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	if s.APIBaseURL == "" {
		s.APIBaseURL = DefaultSettings().APIBaseURL
	}
	if s.Notifications == "" {
		s.Notifications = PermissionUndetermined
	}
	return s, nil
}

// SaveSettings writes settings.yaml with mode 0600, creating the config
// directory if needed.
func (c *Config) SaveSettings(s Settings) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.SettingsPath(), data, 0600)
}
