package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/fwojciec/flume"
)

var (
	toolStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	thinkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func printAgentEvent(evt flume.Event) {
	switch e := evt.(type) {
	case flume.EventContent:
		fmt.Print(e.Content)
	case flume.EventThink:
		fmt.Fprintln(os.Stderr, thinkStyle.Render("· "+e.Content))
	case flume.EventToolStart:
		fmt.Fprintln(os.Stderr, toolStyle.Render("→ "+e.ToolName))
	case flume.EventToolResult:
		fmt.Fprintln(os.Stderr, toolStyle.Render("← "+e.ToolName))
	case flume.EventError:
		fmt.Fprintln(os.Stderr, errStyle.Render("✗ "+e.Message))
	}
}

func printProgressEvent(evt flume.Event) {
	g, ok := evt.(flume.EventGeneric)
	if !ok {
		return
	}
	keys := make([]string, 0, len(g.Fields))
	for k := range g.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, g.Fields[k]))
	}
	fmt.Println(strings.Join(parts, " "))
}

func summaryLine(res flume.Result) string {
	parts := []string{"done"}
	if res.ToolRounds > 0 {
		parts = append(parts, fmt.Sprintf("tools=%s rounds=%d",
			strings.Join(res.ToolsUsed, ","), res.ToolRounds))
	}
	if u, ok := flume.ParseTokenUsage(res.TotalUsage); ok {
		parts = append(parts, fmt.Sprintf("tokens=%d(%d+%d)",
			u.TotalTokens, u.PromptTokens, u.CompletionTokens))
	}
	return dimStyle.Render(strings.Join(parts, " "))
}

func renderMarkdown(content string) string {
	out, err := glamour.Render(content, "auto")
	if err != nil {
		return content
	}
	return out
}
