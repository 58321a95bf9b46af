package flume

import (
	"context"
	"errors"
)

// Result is the settled outcome of one streamed request.
//
// ToolsUsed has set semantics: distinct tool names, sorted for determinism,
// with no ordering significance. Err is "aborted" for caller-triggered
// cancellation so callers can suppress user-facing alarms for intentional
// aborts; any other failure carries the underlying error message.
type Result struct {
	Success    bool
	Content    string
	ToolsUsed  []string
	ToolRounds int
	TotalUsage map[string]any
	Err        string
}

// ErrAbortedMessage is the Err value carried by results of aborted requests.
const ErrAbortedMessage = "aborted"

// errMessage classifies a terminal transport error into a Result error
// value. Cancellation is detected structurally rather than by matching
// error text: anything wrapping context.Canceled or ErrAborted settles as
// "aborted".
func errMessage(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrAborted) {
		return ErrAbortedMessage
	}
	return err.Error()
}

// Aborted reports whether the result settled due to caller cancellation.
func (r Result) Aborted() bool {
	return !r.Success && r.Err == ErrAbortedMessage
}
