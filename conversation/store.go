package conversation

import (
	"context"
	"time"

	"github.com/kbukum/llmgate/llm"
)

// Query limits.
const (
	DefaultLimit     = 10
	MaxRecentResults = 50
	MaxSearchResults = 100
)

// Store persists conversations and their messages.
type Store interface {
	// StartConversation records a new conversation and returns its ID.
	StartConversation(ctx context.Context, provider, requestID string, metadata map[string]any) (string, error)
	// EndConversation stamps the conversation's end time.
	EndConversation(ctx context.Context, id string) error
	// LogMessage appends a message to a conversation. tokens may be nil.
	LogMessage(ctx context.Context, conversationID string, role llm.Role, content, model string, tokens *int) error
	// GetConversation returns a conversation with its messages in order.
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	// RecentConversations lists conversations newest first. limit is capped at MaxRecentResults.
	RecentConversations(ctx context.Context, limit, offset int) ([]Summary, error)
	// SearchConversations lists matching conversations newest first. Limit is capped at MaxSearchResults.
	SearchConversations(ctx context.Context, q SearchQuery) ([]Summary, error)
	// Stats counts conversations and messages.
	Stats(ctx context.Context) (*Stats, error)
	// Cleanup deletes conversations, and their messages, older than retention.
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// ClampLimit maps a requested page size onto [1, maxLimit], with
// DefaultLimit for unset values.
func ClampLimit(limit, maxLimit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
