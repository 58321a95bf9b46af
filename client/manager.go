package client

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/fwojciec/flume"
)

// abortNotifyTimeout bounds the fire-and-forget server notification sent
// after a local abort.
const abortNotifyTimeout = 5 * time.Second

// Manager tracks every in-flight streaming request so any of them can be
// aborted from outside. The registry map is the only state shared across
// concurrent requests; every insert and delete is atomic with respect to
// interleaved Start/Abort calls.
type Manager struct {
	client *Client
	log    *slog.Logger

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger used for lifecycle diagnostics.
func WithManagerLogger(log *slog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a Manager dispatching through c.
func NewManager(c *Client, opts ...ManagerOption) *Manager {
	m := &Manager{
		client: c,
		log:    slog.Default(),
		active: make(map[string]context.CancelFunc),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// StartChat launches a collect-mode chat completion. It returns the
// generated request identifier and a channel on which the final Result is
// delivered exactly once; the channel is closed after delivery. onEvent,
// if non-nil, receives every decoded event live, in arrival order.
func (m *Manager) StartChat(ctx context.Context, req ChatRequest, onEvent func(flume.Event)) (string, <-chan flume.Result) {
	return m.start(ctx, func(runCtx context.Context) flume.Result {
		var agg flume.CompletionAggregator
		_, err := m.client.ChatStream(runCtx, req, func(evt flume.Event) {
			agg.Observe(evt)
			if onEvent != nil {
				onEvent(evt)
			}
		})
		return agg.Result(err)
	})
}

// StartAgent launches a collect-mode agent run. Contract as in
// [Manager.StartChat].
func (m *Manager) StartAgent(ctx context.Context, req AgentRequest, onEvent func(flume.Event)) (string, <-chan flume.Result) {
	return m.start(ctx, func(runCtx context.Context) flume.Result {
		agg := flume.NewAgentAggregator(m.log)
		events, err := m.client.AgentStream(runCtx, req, func(evt flume.Event) {
			agg.Observe(evt)
			if onEvent != nil {
				onEvent(evt)
			}
		})
		return agg.Result(events, err)
	})
}

func (m *Manager) start(ctx context.Context, run func(context.Context) flume.Result) (string, <-chan flume.Result) {
	id := newRequestID()
	runCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.active[id] = cancel
	m.mu.Unlock()

	results := make(chan flume.Result, 1)
	go func() {
		defer close(results)
		defer cancel()
		defer m.remove(id)
		res := run(runCtx)
		// Deregister before the result becomes visible, so a caller that
		// has received the result never observes a live registry entry.
		m.remove(id)
		results <- res
	}()
	return id, results
}

// Abort cancels the identified request and removes it from the registry.
// Unknown or already-settled identifiers are a no-op, never an error. The
// server is notified out-of-band on a best-effort basis; a failed
// notification does not affect local abort semantics.
func (m *Manager) Abort(requestID string) {
	m.mu.Lock()
	cancel, ok := m.active[requestID]
	if ok {
		delete(m.active, requestID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	cancel()
	go m.notifyAbort(requestID)
}

// Active returns the identifiers of currently registered requests, sorted.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.active))
}

// remove deletes the registry entry. Idempotent, so the settlement path
// and Abort cannot double-remove.
func (m *Manager) remove(requestID string) {
	m.mu.Lock()
	delete(m.active, requestID)
	m.mu.Unlock()
}

func (m *Manager) notifyAbort(requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), abortNotifyTimeout)
	defer cancel()
	if err := m.client.AbortRequest(ctx, requestID); err != nil {
		m.log.Debug("abort notification failed", "request_id", requestID, "error", err)
	}
}

// newRequestID returns a ULID: a millisecond timestamp component plus a
// monotonically-advancing random component. The process-wide locked
// entropy source keeps identifiers distinct across concurrent allocations.
func newRequestID() string {
	return ulid.Make().String()
}
