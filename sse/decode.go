package sse

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/flume"
)

const dataPrefix = "data:"

// Decode converts one framed record into a semantic event. It is total:
// every input yields either an event or nil (no event), never an error.
//
// Only lines carrying the data prefix contribute to the payload; the
// prefix and at most one leading space are stripped from each and the
// remainder rejoined with newlines, so multi-line payloads survive. The
// payload is parsed as a JSON object whose keys are normalized to
// camelCase before interpretation. A payload that is not a JSON object
// degrades to a content event carrying the raw text.
func Decode(record string) flume.Event {
	var payload strings.Builder
	for _, line := range strings.Split(record, "\n") {
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := strings.TrimPrefix(line, dataPrefix)
		data = strings.TrimPrefix(data, " ")
		if payload.Len() > 0 {
			payload.WriteByte('\n')
		}
		payload.WriteString(data)
	}
	if payload.Len() == 0 {
		return nil
	}

	raw := payload.String()
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return flume.EventContent{Content: raw}
	}
	fields = CamelizeKeys(fields)

	typ, _ := fields["type"].(string)
	switch typ {
	case "content":
		return contentEvent(fields)
	case "think":
		return flume.EventThink{
			Content:    stringField(fields, "content"),
			Tag:        stringField(fields, "thinkTag"),
			DurationMS: intField(fields, "thinkDurationMs"),
		}
	case "tool_start":
		return flume.EventToolStart{
			ToolName: stringField(fields, "toolName"),
			Params:   objectField(fields, "toolParams"),
		}
	case "tool_result":
		return flume.EventToolResult{
			ToolName: stringField(fields, "toolName"),
			Result:   fields["toolResult"],
		}
	case "done":
		return flume.EventDone{Usage: objectField(fields, "usage")}
	case "error":
		return flume.EventError{Message: stringField(fields, "error")}
	case "":
		// Chat-stream chunks carry no type discriminator, only content.
		if _, ok := fields["content"].(string); ok {
			return contentEvent(fields)
		}
		return flume.EventGeneric{Fields: fields}
	default:
		return flume.EventGeneric{Fields: fields}
	}
}

// CamelizeKeys returns m with every object key recursively converted from
// snake_case to camelCase, descending into nested objects and arrays.
func CamelizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[camelize(k)] = camelizeValue(v)
	}
	return out
}

func camelizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CamelizeKeys(t)
	case []any:
		for i := range t {
			t[i] = camelizeValue(t[i])
		}
		return t
	default:
		return v
	}
}

func camelize(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func contentEvent(fields map[string]any) flume.EventContent {
	return flume.EventContent{
		Content:      stringField(fields, "content"),
		Finished:     boolField(fields, "isFinished"),
		FinishReason: stringField(fields, "finishReason"),
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func intField(m map[string]any, key string) int {
	n, _ := m[key].(float64)
	return int(n)
}

func objectField(m map[string]any, key string) map[string]any {
	o, _ := m[key].(map[string]any)
	return o
}
