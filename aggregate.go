package flume

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// CompletionAggregator reduces a plain chat-completion event sequence into
// a final Result. It concatenates content deltas in arrival order; the
// request succeeds unless the transport itself failed.
type CompletionAggregator struct {
	content strings.Builder
	usage   map[string]any
}

// Observe folds one event into the aggregate. Non-content events are
// ignored.
func (a *CompletionAggregator) Observe(evt Event) {
	switch e := evt.(type) {
	case EventContent:
		a.content.WriteString(e.Content)
	case EventDone:
		if e.Usage != nil {
			a.usage = e.Usage
		}
	}
}

// Result settles the aggregate. err is the terminal transport error, if
// any; content captured before a failure is retained.
func (a *CompletionAggregator) Result(err error) Result {
	res := Result{Content: a.content.String(), TotalUsage: a.usage}
	if err != nil {
		res.Err = errMessage(err)
		return res
	}
	res.Success = true
	return res
}

// AgentAggregator reduces a tool-augmented agent-run event sequence into a
// final Result: concatenated content, the set of distinct tools used, the
// tool-round count, and the last reported usage.
//
// The tool set is computed twice: incrementally in Observe and by a rescan
// of the complete event list in Result. The two must agree for any event
// sequence; a divergence means the tracking logic has a bug, so it is
// logged as an error and the rescan wins.
type AgentAggregator struct {
	log       *slog.Logger
	content   strings.Builder
	live      map[string]struct{}
	usage     map[string]any
	streamErr string
}

// NewAgentAggregator creates an AgentAggregator. A nil logger falls back
// to slog.Default().
func NewAgentAggregator(log *slog.Logger) *AgentAggregator {
	if log == nil {
		log = slog.Default()
	}
	return &AgentAggregator{log: log, live: make(map[string]struct{})}
}

// Observe folds one event into the aggregate.
func (a *AgentAggregator) Observe(evt Event) {
	switch e := evt.(type) {
	case EventContent:
		a.content.WriteString(e.Content)
	case EventToolStart:
		if e.ToolName != "" {
			a.live[e.ToolName] = struct{}{}
		}
	case EventDone:
		// Last done event wins.
		if e.Usage != nil {
			a.usage = e.Usage
		}
	case EventError:
		a.streamErr = e.Message
	}
}

// Result settles the aggregate. events is the complete ordered list that
// was delivered; err is the terminal transport error, if any. A
// server-reported error chunk fails the result even when the transport
// closed cleanly.
func (a *AgentAggregator) Result(events []Event, err error) Result {
	rescan := toolSet(events)
	if !maps.Equal(rescan, a.live) {
		a.log.Error("agent tool tracking diverged between live and rescan",
			"live", len(a.live), "rescan", len(rescan))
	}

	res := Result{
		Content:    a.content.String(),
		ToolsUsed:  slices.Sorted(maps.Keys(rescan)),
		ToolRounds: len(rescan),
		TotalUsage: a.usage,
	}
	switch {
	case err != nil:
		res.Err = errMessage(err)
	case a.streamErr != "":
		res.Err = a.streamErr
	default:
		res.Success = true
	}
	return res
}

// toolSet collects the distinct tool names referenced by tool-start events.
func toolSet(events []Event) map[string]struct{} {
	set := make(map[string]struct{})
	for _, evt := range events {
		if ts, ok := evt.(EventToolStart); ok && ts.ToolName != "" {
			set[ts.ToolName] = struct{}{}
		}
	}
	return set
}
