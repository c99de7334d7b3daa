package gateway

import "errors"

// Error taxonomy for model calls. Callers branch with errors.Is; the
// pipeline degrades the affected lead on either class and never aborts
// a run for them.
var (
	// ErrModelUnavailable wraps transport failures that survived the
	// retry budget: timeouts, connection errors, 5xx, 429, undecodable
	// bodies, empty completions.
	ErrModelUnavailable = errors.New("model service unavailable")

	// ErrModelResponseInvalid wraps completions that arrived but failed
	// shape validation. Never retried.
	ErrModelResponseInvalid = errors.New("model response invalid")
)
