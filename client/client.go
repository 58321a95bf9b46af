// Package client issues streaming requests against the analytics backend
// and manages their lifecycle. The Client speaks the backend's SSE
// endpoints directly; the Manager layers a cancellable request registry on
// top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/fwojciec/flume"
)

const (
	chatStreamPath     = "/llm/chat-stream"
	agentStreamPath    = "/agent/run-stream"
	agentAbortPath     = "/agent/abort/"
	importProgressPath = "/chat/import-progress"
)

// Client talks to the backend's streaming endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for delivery diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a new [Client] for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ChatStream runs a plain streaming chat completion, delivering each
// decoded event to onEvent in arrival order and returning the full ordered
// event list once the stream drains. onEvent may be nil.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, onEvent func(flume.Event)) ([]flume.Event, error) {
	body, err := c.stream(ctx, http.MethodPost, chatStreamPath, req)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return c.collect(ctx, body, onEvent)
}

// AgentStream runs a tool-augmented agent request, delivering each decoded
// event to onEvent in arrival order and returning the full ordered event
// list once the stream drains. onEvent may be nil.
func (c *Client) AgentStream(ctx context.Context, req AgentRequest, onEvent func(flume.Event)) ([]flume.Event, error) {
	body, err := c.stream(ctx, http.MethodPost, agentStreamPath, req)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return c.collect(ctx, body, onEvent)
}

// ImportProgress subscribes to the unbounded import-progress notification
// stream. See [Client.Subscribe] for the stop contract.
func (c *Client) ImportProgress(ctx context.Context, onEvent func(flume.Event)) (func(), error) {
	return c.Subscribe(ctx, importProgressPath, onEvent)
}

// AbortRequest notifies the server that the identified request was
// abandoned. The Manager calls this fire-and-forget after a local abort;
// it can also be used directly.
func (c *Client) AbortRequest(ctx context.Context, requestID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+agentAbortPath+url.PathEscape(requestID), nil)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp)
	}
	return nil
}

// stream issues the HTTP call and hands back the response body for
// incremental consumption. The caller owns closing the body.
func (c *Client) stream(ctx context.Context, method, path string, payload any) (io.ReadCloser, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp.Body, nil
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == "" {
		return fmt.Errorf("client: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("client: %s", envelope.Error)
}
