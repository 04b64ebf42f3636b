package conversation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is one chat session with a provider.
type Conversation struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Provider  string         `gorm:"size:32;index" json:"provider"`
	RequestID string         `gorm:"size:64" json:"request_id,omitempty"`
	Metadata  map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Messages  []Message      `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// BeforeCreate generates an ID if not already set.
func (c *Conversation) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Message is one logged turn of a conversation.
type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"size:36;index" json:"conversation_id"`
	Role           string    `gorm:"size:16" json:"role"`
	Content        string    `json:"content"`
	Model          string    `gorm:"size:64" json:"model,omitempty"`
	Tokens         *int      `json:"tokens,omitempty"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate generates an ID if not already set.
func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Summary is a conversation with its message count, without the messages.
type Summary struct {
	Conversation
	MessageCount int64 `json:"message_count"`
}

// Stats summarizes the store.
type Stats struct {
	ConversationCount int64            `json:"conversation_count"`
	MessageCount      int64            `json:"message_count"`
	ProviderStats     map[string]int64 `json:"provider_stats"`
}

// SearchQuery filters conversations. Zero fields do not filter.
type SearchQuery struct {
	// Text matches message content, case-insensitively.
	Text     string
	Provider string
	From     time.Time
	To       time.Time
	Limit    int
	Offset   int
}
