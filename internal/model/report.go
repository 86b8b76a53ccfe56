package model

import "time"

// RunReport accumulates the counters for one sweep. It is mutated only by
// the orchestrator goroutine and finalized when the run ends; reports are
// never merged across runs.
type RunReport struct {
	TotalScanned int `json:"total_scanned"`
	Removed      int `json:"removed"`
	Failed       int `json:"failed"`
	Kept         int `json:"kept"`
	Skipped      int `json:"skipped"`

	Duration time.Duration `json:"-"`
	Seconds  int           `json:"duration_seconds"`

	// RateLimited is set when the run was aborted by the platform's
	// rate-limit response; accounts after the abort point were not evaluated.
	RateLimited bool `json:"rate_limited,omitempty"`
	// FollowListIncomplete is set when follow-list enumeration stopped on a
	// page error and the sweep ran over a partial list.
	FollowListIncomplete bool `json:"follow_list_incomplete,omitempty"`
}

// Finalize stamps the run duration.
func (r *RunReport) Finalize(d time.Duration) {
	r.Duration = d
	r.Seconds = int(d.Seconds())
}
