package entity

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one message of a conversation, oldest first when in a slice.
type ChatTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ReplySource tells the caller which path produced a chat reply.
type ReplySource string

const (
	SourceCommand  ReplySource = "command"
	SourceAI       ReplySource = "ai"
	SourceFallback ReplySource = "fallback"
)

type ChatReply struct {
	Reply  string      `json:"reply"`
	Source ReplySource `json:"source"`
}

// Completion is what the completion collaborator hands back for one prompt.
type Completion struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	TokenCount int    `json:"token_count"`
}

// ArchivedTurn is a past exchange returned by semantic archive search.
type ArchivedTurn struct {
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Score     float32   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type UsageReport struct {
	UserID string `json:"user_id"`
	Tokens int64  `json:"tokens"`
}
