// Package model defines the core data types shared across the sweep pipeline.
package model

// Account is a single followed account as returned by the follow-list
// endpoint. Identity is the numeric UID; the display name is whatever the
// platform reported at fetch time and is not refreshed within a run.
type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
