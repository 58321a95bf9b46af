package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fwojciec/flume"
)

func TestSummaryLine(t *testing.T) {
	t.Parallel()
	res := flume.Result{
		Success:    true,
		ToolsUsed:  []string{"calendar", "search"},
		ToolRounds: 2,
		TotalUsage: map[string]any{
			"promptTokens":     float64(10),
			"completionTokens": float64(5),
			"totalTokens":      float64(15),
		},
	}

	line := summaryLine(res)

	assert.Contains(t, line, "tools=calendar,search rounds=2")
	assert.Contains(t, line, "tokens=15(10+5)")
}

func TestSummaryLine_NoToolsNoUsage(t *testing.T) {
	t.Parallel()
	line := summaryLine(flume.Result{Success: true})

	assert.Contains(t, line, "done")
	assert.NotContains(t, line, "tools=")
	assert.NotContains(t, line, "tokens=")
}

func TestSummaryLine_UnconventionalUsage(t *testing.T) {
	t.Parallel()
	line := summaryLine(flume.Result{
		Success:    true,
		TotalUsage: map[string]any{"tokens": float64(5)},
	})

	assert.NotContains(t, line, "tokens=")
}
