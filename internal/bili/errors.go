package bili

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the platform's anti-abuse rate limit has
// triggered. It is fatal to a run: pacing was the retry strategy, so the
// caller must stop instead of continuing to hammer a throttled account.
var ErrRateLimited = errors.New("rate limited")

// codeRateLimited is the platform's business-level risk-control code.
const codeRateLimited = -352

// APIError is a non-zero business code in an otherwise well-formed response.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}
