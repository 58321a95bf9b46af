package client

import "encoding/json"

// ChatMessage is one turn of chat-completion history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions carries generation parameters. Nil fields use server
// defaults.
type ChatOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// ChatRequest is the body of a streaming chat-completion call.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Options  *ChatOptions  `json:"options,omitempty"`
}

// TimeFilter bounds the conversation window an agent run may consult.
type TimeFilter struct {
	StartTS *int64 `json:"start_ts,omitempty"`
	EndTS   *int64 `json:"end_ts,omitempty"`
}

// OwnerInfo identifies the session owner on whose behalf the agent runs.
type OwnerInfo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToolContext scopes an agent run to a session and its constraints.
type ToolContext struct {
	SessionID        string      `json:"session_id"`
	TimeFilter       *TimeFilter `json:"time_filter,omitempty"`
	MaxMessagesLimit *int        `json:"max_messages_limit,omitempty"`
	OwnerInfo        *OwnerInfo  `json:"owner_info,omitempty"`
	Locale           string      `json:"locale,omitempty"`
}

// PromptConfig overrides the agent's prompt scaffolding.
type PromptConfig struct {
	RoleDefinition string `json:"role_definition"`
	ResponseRules  string `json:"response_rules"`
}

// AgentRequest is the body of a streaming agent-run call.
type AgentRequest struct {
	UserMessage     string            `json:"user_message"`
	Context         ToolContext       `json:"context"`
	HistoryMessages []json.RawMessage `json:"history_messages,omitempty"`
	ChatType        string            `json:"chat_type,omitempty"`
	PromptConfig    *PromptConfig     `json:"prompt_config,omitempty"`
	Locale          string            `json:"locale,omitempty"`
}
