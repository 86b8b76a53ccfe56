// Package config loads and validates the run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Detection modes recognized in the config file.
const (
	ModeFeed       = "feed"
	ModeSubmission = "submission"
)

// Config is the run configuration. All policy knobs live here; the engine
// receives an immutable copy at construction and nothing is mutated
// mid-run.
type Config struct {
	// PageSize is the follow-list page size (1-50, the provider's cap).
	PageSize int `yaml:"page_size"`
	// Whitelist is the manually configured set of protected account ids.
	Whitelist []int64 `yaml:"whitelist,omitempty"`
	// InactiveThresholdDays: accounts whose last activity is strictly older
	// than this many days are removed.
	InactiveThresholdDays int `yaml:"inactive_threshold_days"`
	// SkipMostRecent skips the N most recently followed accounts entirely.
	SkipMostRecent int `yaml:"skip_most_recent"`
	// DetectionMode is "feed" or "submission".
	DetectionMode string `yaml:"detection_mode"`
	// RemoveNoActivity removes accounts with no discoverable activity.
	RemoveNoActivity bool `yaml:"remove_no_activity"`
	// RemoveDeactivated removes accounts the platform marks deactivated.
	RemoveDeactivated bool `yaml:"remove_deactivated"`
	// LagMinSeconds / LagMaxSeconds bound the random pre-call delay.
	LagMinSeconds int `yaml:"lag_min_seconds"`
	LagMaxSeconds int `yaml:"lag_max_seconds"`
	// AutoWhitelist adds mutual follows and the special-attention group to
	// the whitelist. Defaults to true when unset.
	AutoWhitelist *bool `yaml:"auto_whitelist,omitempty"`
	// DefaultFormat is the output format (table, json).
	DefaultFormat string `yaml:"default_format,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		PageSize:              50,
		InactiveThresholdDays: 365,
		SkipMostRecent:        0,
		DetectionMode:         ModeFeed,
		RemoveNoActivity:      false,
		RemoveDeactivated:     false,
		LagMinSeconds:         5,
		LagMaxSeconds:         20,
		DefaultFormat:         "table",
	}
}

// AutoWhitelistEnabled resolves the tri-state AutoWhitelist field.
func (c *Config) AutoWhitelistEnabled() bool {
	return c.AutoWhitelist == nil || *c.AutoWhitelist
}

// Validate rejects configurations that would misbehave mid-run. Every rule
// here is checked before a run starts, never discovered during one.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 50 {
		return fmt.Errorf("page_size must be between 1 and 50, got %d", c.PageSize)
	}
	if c.InactiveThresholdDays < 0 {
		return fmt.Errorf("inactive_threshold_days cannot be negative, got %d", c.InactiveThresholdDays)
	}
	if c.SkipMostRecent < 0 {
		return fmt.Errorf("skip_most_recent cannot be negative, got %d", c.SkipMostRecent)
	}
	if c.DetectionMode != ModeFeed && c.DetectionMode != ModeSubmission {
		return fmt.Errorf("detection_mode must be %q or %q, got %q", ModeFeed, ModeSubmission, c.DetectionMode)
	}
	if c.LagMinSeconds < 0 {
		return fmt.Errorf("lag_min_seconds cannot be negative, got %d", c.LagMinSeconds)
	}
	if c.LagMinSeconds > c.LagMaxSeconds {
		return fmt.Errorf("lag_min_seconds (%d) cannot exceed lag_max_seconds (%d)", c.LagMinSeconds, c.LagMaxSeconds)
	}
	if c.DefaultFormat != "" && c.DefaultFormat != "table" && c.DefaultFormat != "json" {
		return fmt.Errorf("default_format must be table or json, got %q", c.DefaultFormat)
	}
	return nil
}

// DefaultConfigDir returns the config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".bilisweep"
	}
	return filepath.Join(configDir, "bilisweep")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Load reads the configuration from path, or from the default location
// when path is empty. A missing file yields the defaults; per-run flag
// overrides are the CLI's concern.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = Path()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the default location.
func (c *Config) Save() error {
	configDir := DefaultConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ToYAML returns the config as a YAML string.
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// MinimalConfig returns a starter config file with comments.
func MinimalConfig() string {
	return `# bilisweep configuration file
# See: bilisweep config show  (for the current merged values)

# Accounts inactive longer than this are unfollowed.
inactive_threshold_days: 365

# Detection strategy: feed (recent posts) or submission (video/audio/article)
detection_mode: feed

# Protect the N most recently followed accounts
skip_most_recent: 0

# Manually protected account ids (optional)
# whitelist:
#   - 123456
#   - 789012

# Random delay bounds between platform calls, in seconds.
# Shrinking these risks triggering the platform's rate limit.
lag_min_seconds: 5
lag_max_seconds: 20

# Also protect mutual follows and special-attention accounts
auto_whitelist: true

# Remove accounts with no discoverable activity at all
remove_no_activity: false

# Remove accounts the platform reports as deactivated
remove_deactivated: false
`
}
