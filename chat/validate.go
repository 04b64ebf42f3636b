package chat

import (
	"fmt"

	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/validation"
)

// Request is the inbound chat body.
type Request struct {
	Messages       []llm.Message `json:"messages" validate:"required,dive"`
	ConversationID string        `json:"conversation_id,omitempty" validate:"omitempty,uuid"`
}

// Conversation returns the request messages as a conversation.
func (r Request) Conversation() llm.Conversation { return llm.Conversation(r.Messages) }

// Validate checks conv against the configured limits. It fails with one
// VALIDATION_ERROR describing every violation.
func Validate(conv llm.Conversation, cfg *Config) *apperrors.AppError {
	if len(conv) == 0 {
		return apperrors.Validation("No messages provided in request")
	}

	v := validation.New()
	v.MaxItems("messages", len(conv), cfg.MaxMessages,
		fmt.Sprintf("Conversation exceeds maximum of %d messages", cfg.MaxMessages))
	for i, m := range conv {
		field := fmt.Sprintf("messages[%d].content", i)
		text := m.Text()
		if text == "" {
			v.AddError(field, "Message content cannot be empty")
			continue
		}
		v.MinLength(field, text, cfg.MinMessageLength,
			fmt.Sprintf("Message content must be at least %d characters", cfg.MinMessageLength))
		v.MaxLength(field, text, cfg.MaxMessageLength,
			fmt.Sprintf("Message exceeds maximum length of %d characters", cfg.MaxMessageLength))
		v.OneOf(fmt.Sprintf("messages[%d].role", i), string(m.Role),
			[]string{string(llm.RoleUser), string(llm.RoleAssistant), string(llm.RoleSystem)})
	}
	return v.Validate()
}

// ValidateRequest checks the conversation limits of req and then its struct
// tag rules.
func ValidateRequest(req *Request, cfg *Config) *apperrors.AppError {
	if appErr := Validate(req.Conversation(), cfg); appErr != nil {
		return appErr
	}
	if err := validation.Validate(req); err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			return appErr
		}
		return apperrors.Validation(err.Error())
	}
	return nil
}
