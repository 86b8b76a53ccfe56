package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"submission mode", func(c *Config) { c.DetectionMode = ModeSubmission }, false},
		{"equal lag bounds", func(c *Config) { c.LagMinSeconds = 7; c.LagMaxSeconds = 7 }, false},
		{"page size zero", func(c *Config) { c.PageSize = 0 }, true},
		{"page size over cap", func(c *Config) { c.PageSize = 51 }, true},
		{"negative threshold", func(c *Config) { c.InactiveThresholdDays = -1 }, true},
		{"negative skip", func(c *Config) { c.SkipMostRecent = -2 }, true},
		{"unknown mode", func(c *Config) { c.DetectionMode = "videos" }, true},
		{"negative lag min", func(c *Config) { c.LagMinSeconds = -1 }, true},
		{"lag min above max", func(c *Config) { c.LagMinSeconds = 30; c.LagMaxSeconds = 10 }, true},
		{"bad format", func(c *Config) { c.DefaultFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAutoWhitelistEnabled(t *testing.T) {
	cfg := Default()
	if !cfg.AutoWhitelistEnabled() {
		t.Error("unset auto_whitelist should default to enabled")
	}

	off := false
	cfg.AutoWhitelist = &off
	if cfg.AutoWhitelistEnabled() {
		t.Error("auto_whitelist: false should disable")
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	// Point the default path somewhere empty.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.PageSize != 50 || cfg.DetectionMode != ModeFeed {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for explicitly named missing file")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
inactive_threshold_days: 180
detection_mode: submission
whitelist: [111, 222]
auto_whitelist: false
lag_min_seconds: 2
lag_max_seconds: 4
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.InactiveThresholdDays != 180 {
		t.Errorf("threshold = %d, want 180", cfg.InactiveThresholdDays)
	}
	if cfg.DetectionMode != ModeSubmission {
		t.Errorf("mode = %q, want submission", cfg.DetectionMode)
	}
	if len(cfg.Whitelist) != 2 || cfg.Whitelist[0] != 111 {
		t.Errorf("whitelist = %v", cfg.Whitelist)
	}
	if cfg.AutoWhitelistEnabled() {
		t.Error("auto_whitelist: false not honored")
	}
	// Unset keys keep defaults.
	if cfg.PageSize != 50 {
		t.Errorf("page_size = %d, want default 50", cfg.PageSize)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_size: [not an int"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMinimalConfigParses(t *testing.T) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(MinimalConfig()), &cfg); err != nil {
		t.Fatalf("minimal config template does not parse: %v", err)
	}
	if cfg.InactiveThresholdDays != 365 {
		t.Errorf("threshold = %d, want 365", cfg.InactiveThresholdDays)
	}
}

func TestToYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Whitelist = []int64{42}

	out, err := cfg.ToYAML()
	if err != nil {
		t.Fatal(err)
	}

	var parsed Config
	if err := yaml.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatal(err)
	}
	if len(parsed.Whitelist) != 1 || parsed.Whitelist[0] != 42 {
		t.Errorf("whitelist = %v, want [42]", parsed.Whitelist)
	}
}
