package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRegistersSubcommands(t *testing.T) {
	root := New()

	want := []string{"run", "whoami", "config", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestLoadRunConfigFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("inactive_threshold_days: 100\ndetection_mode: feed\n"), 0600); err != nil {
		t.Fatal(err)
	}

	opts := &Options{}
	cmd := NewCmdRun(opts)
	if err := cmd.Flags().Parse([]string{
		"--config", path,
		"--inactive", "2y",
		"--mode", "submission",
		"--skip-recent", "7",
		"--no-auto-whitelist",
	}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadRunConfig() error = %v", err)
	}

	if cfg.InactiveThresholdDays != 730 {
		t.Errorf("InactiveThresholdDays = %d, want 730", cfg.InactiveThresholdDays)
	}
	if cfg.DetectionMode != "submission" {
		t.Errorf("DetectionMode = %q, want submission", cfg.DetectionMode)
	}
	if cfg.SkipMostRecent != 7 {
		t.Errorf("SkipMostRecent = %d, want 7", cfg.SkipMostRecent)
	}
	if cfg.AutoWhitelistEnabled() {
		t.Error("AutoWhitelistEnabled() = true after --no-auto-whitelist")
	}
}

func TestLoadRunConfigKeepsFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("inactive_threshold_days: 100\ndetection_mode: submission\nlag_min_seconds: 3\nlag_max_seconds: 9\n"), 0600); err != nil {
		t.Fatal(err)
	}

	opts := &Options{}
	cmd := NewCmdRun(opts)
	if err := cmd.Flags().Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadRunConfig() error = %v", err)
	}

	if cfg.InactiveThresholdDays != 100 {
		t.Errorf("InactiveThresholdDays = %d, want 100", cfg.InactiveThresholdDays)
	}
	if cfg.DetectionMode != "submission" {
		t.Errorf("DetectionMode = %q, want submission", cfg.DetectionMode)
	}
	if cfg.LagMinSeconds != 3 || cfg.LagMaxSeconds != 9 {
		t.Errorf("lag bounds = %d,%d, want 3,9", cfg.LagMinSeconds, cfg.LagMaxSeconds)
	}
}

func TestLoadRunConfigRejectsInvalidOverride(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdRun(opts)
	if err := cmd.Flags().Parse([]string{"--lag-min", "30", "--lag-max", "10"}); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRunConfig(cmd, opts); err == nil {
		t.Error("loadRunConfig() accepted lag-min > lag-max")
	}
}

func TestLoadRunConfigRejectsBadInactive(t *testing.T) {
	opts := &Options{}
	cmd := NewCmdRun(opts)
	if err := cmd.Flags().Parse([]string{"--inactive", "soon"}); err != nil {
		t.Fatal(err)
	}

	if _, err := loadRunConfig(cmd, opts); err == nil {
		t.Error("loadRunConfig() accepted an unparseable --inactive")
	}
}
