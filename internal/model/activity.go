package model

// Source identifies which detection strategy produced an activity signal.
type Source string

const (
	SourceFeed       Source = "feed"
	SourceSubmission Source = "submission"
)

// ActivitySignal is the resolved "last active" moment for an account.
// A zero Timestamp means no discoverable activity; a failed fetch is an
// error, not an empty signal, and never encoded here.
type ActivitySignal struct {
	Timestamp int64  `json:"timestamp"` // unix seconds, 0 = none
	Source    Source `json:"source"`
}

// Empty reports whether the signal carries no discoverable activity.
func (s ActivitySignal) Empty() bool {
	return s.Timestamp == 0
}
