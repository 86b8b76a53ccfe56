package model

// Action is the outcome of classifying one followed account.
type Action string

const (
	ActionKeep   Action = "keep"
	ActionRemove Action = "remove"
	ActionSkip   Action = "skip"
)

// Decision records the classification of a single account along with a
// human-readable, policy-traceable reason. Reasons are deterministic given
// the same inputs so they can be asserted in tests and audited from logs.
type Decision struct {
	Account Account `json:"account"`
	Action  Action  `json:"action"`
	Reason  string  `json:"reason"`

	// Index is the 1-based position in the follow list.
	Index int `json:"index"`
	// LastActive is the resolved activity timestamp (unix seconds), 0 if
	// none was discoverable or the account never reached the activity check.
	LastActive int64 `json:"last_active,omitempty"`
	// PastDays is floor((now - LastActive) / 86400), valid when LastActive > 0.
	PastDays int `json:"past_days,omitempty"`
}
