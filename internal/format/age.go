// Package format provides human-readable formatting helpers for table output.
package format

import (
	"fmt"
	"time"
)

// Age formats a duration as a compact age string: "now", "5m", "2h", "3d",
// "2w", "3mo", "2y". Inactivity spans here routinely exceed a year.
func Age(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}
	if days < 30 {
		return fmt.Sprintf("%dw", days/7)
	}
	if days < 365 {
		return fmt.Sprintf("%dmo", days/30)
	}
	return fmt.Sprintf("%dy", days/365)
}

// UnixDate formats a unix-seconds timestamp as a local calendar date.
func UnixDate(ts int64) string {
	return time.Unix(ts, 0).Format("2006-01-02")
}
