package flume

// TokenUsage is the conventional token accounting reported by the backend.
//
// Invariant: TotalTokens = PromptTokens + CompletionTokens as reported by
// the server. The client does not recompute the sum.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ParseTokenUsage extracts the conventional accounting fields from a
// structured usage value (camelCase keys, as carried by EventDone and
// Result.TotalUsage). It reports false when none of the fields are
// present.
func ParseTokenUsage(usage map[string]any) (TokenUsage, bool) {
	var u TokenUsage
	var found bool
	if n, ok := usage["promptTokens"].(float64); ok {
		u.PromptTokens = int(n)
		found = true
	}
	if n, ok := usage["completionTokens"].(float64); ok {
		u.CompletionTokens = int(n)
		found = true
	}
	if n, ok := usage["totalTokens"].(float64); ok {
		u.TotalTokens = int(n)
		found = true
	}
	return u, found
}
