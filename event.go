package flume

// Event is a sealed interface representing a decoded streaming event.
// Events are purely semantic. Transport errors come from the dispatch
// loop's error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventContent represents a content delta.
type EventContent struct {
	Content string
	// Finished and FinishReason are set on chat-stream chunks, which carry
	// completion markers inline instead of a separate done event.
	Finished     bool
	FinishReason string
}

func (EventContent) event() {}

// EventThink represents a reasoning delta emitted before content.
type EventThink struct {
	Content    string
	Tag        string
	DurationMS int
}

func (EventThink) event() {}

// EventToolStart signals that the agent started a tool invocation.
type EventToolStart struct {
	ToolName string
	Params   map[string]any
}

func (EventToolStart) event() {}

// EventToolResult carries the outcome of a completed tool invocation.
type EventToolResult struct {
	ToolName string
	Result   any
}

func (EventToolResult) event() {}

// EventDone signals normal completion of an agent run. Usage is the
// terminal token accounting for the run, when the server reports it,
// with keys normalized to camelCase. It is kept structured rather than
// typed so servers can evolve the accounting fields without breaking
// decoding; ParseTokenUsage extracts the conventional fields.
type EventDone struct {
	Usage map[string]any
}

func (EventDone) event() {}

// EventError carries a server-reported failure delivered in-stream.
type EventError struct {
	Message string
}

func (EventError) event() {}

// EventGeneric is the catch-all for payloads with an unknown or missing
// type discriminator. Fields holds the decoded object with keys normalized
// to camelCase.
type EventGeneric struct {
	Fields map[string]any
}

func (EventGeneric) event() {}

// Interface compliance checks.
var (
	_ Event = EventContent{}
	_ Event = EventThink{}
	_ Event = EventToolStart{}
	_ Event = EventToolResult{}
	_ Event = EventDone{}
	_ Event = EventError{}
	_ Event = EventGeneric{}
)
