package flume_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/flume"
)

func TestParseTokenUsage(t *testing.T) {
	t.Parallel()
	u, ok := flume.ParseTokenUsage(map[string]any{
		"promptTokens":     float64(10),
		"completionTokens": float64(5),
		"totalTokens":      float64(15),
	})

	require.True(t, ok)
	assert.Equal(t, flume.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, u)
}

func TestParseTokenUsage_Partial(t *testing.T) {
	t.Parallel()
	u, ok := flume.ParseTokenUsage(map[string]any{"totalTokens": float64(7)})

	require.True(t, ok)
	assert.Equal(t, 7, u.TotalTokens)
	assert.Zero(t, u.PromptTokens)
}

func TestParseTokenUsage_Unconventional(t *testing.T) {
	t.Parallel()
	_, ok := flume.ParseTokenUsage(map[string]any{"tokens": float64(5)})
	assert.False(t, ok)

	_, ok = flume.ParseTokenUsage(nil)
	assert.False(t, ok)
}
