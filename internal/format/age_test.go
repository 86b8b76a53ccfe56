package format

import (
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"seconds ago", 30 * time.Second, "now"},
		{"minutes", 5 * time.Minute, "5m"},
		{"hours", 3 * time.Hour, "3h"},
		{"days", 72 * time.Hour, "3d"},
		{"weeks", 10 * 24 * time.Hour, "1w"},
		{"months", 45 * 24 * time.Hour, "1mo"},
		{"just under a year", 364 * 24 * time.Hour, "12mo"},
		{"years", 800 * 24 * time.Hour, "2y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.d); got != tt.want {
				t.Errorf("Age(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestUnixDate(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local).Unix()
	if got := UnixDate(ts); got != "2024-03-15" {
		t.Errorf("UnixDate(%d) = %q, want 2024-03-15", ts, got)
	}
}
