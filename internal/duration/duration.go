// Package duration provides parsing for human-readable duration strings.
package duration

import (
	"fmt"
	"strconv"
)

// Days parses human-readable durations like "30d", "8w", "6mo", "1y" and
// returns them as a whole number of days. A bare integer is taken as days.
func Days(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("duration cannot be negative: %s", s)
		}
		return n, nil
	}

	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use e.g., 30d, 8w, 6mo, 1y)", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("duration cannot be negative: %s", s)
	}

	switch unit {
	case "d", "day", "days":
		return n, nil
	case "w", "wk", "wks", "week", "weeks":
		return n * 7, nil
	case "mo", "month", "months":
		return n * 30, nil
	case "y", "yr", "yrs", "year", "years":
		return n * 365, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
