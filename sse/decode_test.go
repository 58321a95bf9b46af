package sse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/flume"
	"github.com/fwojciec/flume/sse"
)

func TestDecode_EmptyRecord(t *testing.T) {
	t.Parallel()
	assert.Nil(t, sse.Decode(""))
	assert.Nil(t, sse.Decode("event: ping"))
	assert.Nil(t, sse.Decode(": keep-alive comment"))
	assert.Nil(t, sse.Decode("data:"))
}

func TestDecode_GenericObject(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"a":1}`)

	generic, ok := ev.(flume.EventGeneric)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": float64(1)}, generic.Fields)
}

func TestDecode_Content(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"content","content":"Hi"}`)

	content, ok := ev.(flume.EventContent)
	require.True(t, ok)
	assert.Equal(t, "Hi", content.Content)
	assert.False(t, content.Finished)
}

func TestDecode_ChatChunkWithoutType(t *testing.T) {
	t.Parallel()
	// Chat stream chunks carry no type discriminator, only content and
	// completion flags.
	ev := sse.Decode(`data: {"content":"!","isFinished":true,"finishReason":"stop"}`)

	content, ok := ev.(flume.EventContent)
	require.True(t, ok)
	assert.Equal(t, "!", content.Content)
	assert.True(t, content.Finished)
	assert.Equal(t, "stop", content.FinishReason)
}

func TestDecode_Think(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"think","content":"hmm","think_tag":"plan","think_duration_ms":1200}`)

	think, ok := ev.(flume.EventThink)
	require.True(t, ok)
	assert.Equal(t, "hmm", think.Content)
	assert.Equal(t, "plan", think.Tag)
	assert.Equal(t, 1200, think.DurationMS)
}

func TestDecode_ToolStart(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"tool_start","tool_name":"search","tool_params":{"query_text":"go","max_results":3}}`)

	start, ok := ev.(flume.EventToolStart)
	require.True(t, ok)
	assert.Equal(t, "search", start.ToolName)
	assert.Equal(t, map[string]any{"queryText": "go", "maxResults": float64(3)}, start.Params)
}

func TestDecode_ToolResult(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"tool_result","tool_name":"search","tool_result":["a","b"]}`)

	res, ok := ev.(flume.EventToolResult)
	require.True(t, ok)
	assert.Equal(t, "search", res.ToolName)
	assert.Equal(t, []any{"a", "b"}, res.Result)
}

func TestDecode_Done(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"done","usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)

	done, ok := ev.(flume.EventDone)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"promptTokens":     float64(10),
		"completionTokens": float64(5),
		"totalTokens":      float64(15),
	}, done.Usage)
}

func TestDecode_Error(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"error","error":"model unavailable"}`)

	errEv, ok := ev.(flume.EventError)
	require.True(t, ok)
	assert.Equal(t, "model unavailable", errEv.Message)
}

func TestDecode_UnknownType(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data: {"type":"heartbeat","ts":99}`)

	generic, ok := ev.(flume.EventGeneric)
	require.True(t, ok)
	assert.Equal(t, "heartbeat", generic.Fields["type"])
}

func TestDecode_MultiLinePayload(t *testing.T) {
	t.Parallel()
	record := "data: {\"type\":\"content\",\ndata: \"content\":\"hi\"}"
	ev := sse.Decode(record)

	content, ok := ev.(flume.EventContent)
	require.True(t, ok)
	assert.Equal(t, "hi", content.Content)
}

func TestDecode_NonJSONFallback(t *testing.T) {
	t.Parallel()
	ev := sse.Decode("data: plain text, not json")

	content, ok := ev.(flume.EventContent)
	require.True(t, ok)
	assert.Equal(t, "plain text, not json", content.Content)
}

func TestDecode_PrefixWithoutSpace(t *testing.T) {
	t.Parallel()
	ev := sse.Decode(`data:{"type":"content","content":"x"}`)

	content, ok := ev.(flume.EventContent)
	require.True(t, ok)
	assert.Equal(t, "x", content.Content)
}

func TestDecode_Total(t *testing.T) {
	t.Parallel()
	// Decoding never panics and never returns an error, whatever the input.
	records := []string{
		"data: {",
		"data: []",
		"data: null",
		"data: 42",
		"data: \"bare string\"",
		"data: {\"type\":123}",
		"data: \xff\xfe invalid utf8",
		"retry: 1000",
	}
	for _, rec := range records {
		assert.NotPanics(t, func() { sse.Decode(rec) }, "record %q", rec)
	}
}

func TestCamelizeKeys_Nested(t *testing.T) {
	t.Parallel()
	in := map[string]any{
		"outer_key": map[string]any{"inner_key": 1},
		"list_key":  []any{map[string]any{"deep_key": true}},
		"plain":     "v",
	}

	got := sse.CamelizeKeys(in)

	assert.Equal(t, map[string]any{
		"outerKey": map[string]any{"innerKey": 1},
		"listKey":  []any{map[string]any{"deepKey": true}},
		"plain":    "v",
	}, got)
}
