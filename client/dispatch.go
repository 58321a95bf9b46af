package client

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/fwojciec/flume"
	"github.com/fwojciec/flume/sse"
)

const readChunkSize = 4096

// collect drives the frame/decode loop over a bounded response body. Every
// decoded event is delivered to onEvent and appended to the returned
// ordered list; the list holds everything captured before a failure, so
// partial progress survives a mid-stream error.
func (c *Client) collect(ctx context.Context, body io.Reader, onEvent func(flume.Event)) ([]flume.Event, error) {
	var events []flume.Event
	err := c.readStream(ctx, body, func(evt flume.Event) {
		c.deliver(onEvent, evt)
		events = append(events, evt)
	})
	return events, err
}

// readStream reads the body incrementally through a Framer, decoding each
// record and emitting its event. Reads are strictly sequential; events are
// emitted one at a time in arrival order with no overlapping calls.
// Cancellation is observed at each read. On EOF and on graceful
// cancellation the trailing partial record is flushed through the same
// decode path, so a body that ends without a final blank line still yields
// its last event.
func (c *Client) readStream(ctx context.Context, body io.Reader, emit func(flume.Event)) error {
	var framer sse.Framer
	flush := func() {
		if rec, ok := framer.Flush(); ok {
			if evt := sse.Decode(rec); evt != nil {
				emit(evt)
			}
		}
	}

	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			flush()
			return err
		}

		n, err := body.Read(buf)
		if n > 0 {
			for _, rec := range framer.Feed(buf[:n]) {
				if evt := sse.Decode(rec); evt != nil {
					emit(evt)
				}
			}
		}
		switch {
		case err == io.EOF:
			flush()
			return nil
		case err != nil:
			// A read failure caused by cancellation settles as the context
			// error, not as whatever the transport wrapped it in.
			if ctxErr := ctx.Err(); ctxErr != nil {
				flush()
				return ctxErr
			}
			return err
		}
	}
}

// deliver invokes the observer, isolating the read loop from observer
// panics: a panicking observer is logged and the stream continues.
func (c *Client) deliver(onEvent func(flume.Event), evt flume.Event) {
	if onEvent == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("event observer panicked", "panic", r)
		}
	}()
	onEvent(evt)
}

// Subscribe opens an unbounded notification stream at path and delivers
// its events until the server closes the connection or the returned stop
// function is called. It returns immediately; events arrive on a
// background goroutine, one at a time in arrival order. Calling stop after
// the stream has already closed is a no-op.
func (c *Client) Subscribe(ctx context.Context, path string, onEvent func(flume.Event)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	body, err := c.stream(ctx, http.MethodGet, path, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	go func() {
		// Release the derived context once the stream ends on its own, so
		// it does not stay registered with the parent until stop is called.
		defer cancel()
		defer body.Close()
		err := c.readStream(ctx, body, func(evt flume.Event) {
			c.deliver(onEvent, evt)
		})
		if err != nil && ctx.Err() == nil {
			c.log.Warn("subscription stream ended", "path", path, "error", err)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}
