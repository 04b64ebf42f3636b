package conversation

import (
	"context"

	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
)

// Recorder wraps a Store for the request path. Every method logs and
// swallows store failures so a broken database never fails a chat.
type Recorder struct {
	store Store
	log   *logger.Logger
}

// NewRecorder creates a Recorder over store.
func NewRecorder(store Store, log *logger.Logger) *Recorder {
	return &Recorder{store: store, log: log.WithComponent("conversation")}
}

// Start records a new conversation. On failure it still returns a usable
// ID so the request can proceed.
func (r *Recorder) Start(ctx context.Context, provider, requestID string, metadata map[string]any) string {
	id, err := r.store.StartConversation(ctx, provider, requestID, metadata)
	if err != nil {
		r.log.WithContext(ctx).WithError(err).Warn("Failed to log conversation start", logger.Fields(logger.FieldProvider, provider))
		id, _ = Noop{}.StartConversation(ctx, provider, requestID, metadata)
	}
	return id
}

// End stamps the end of a conversation.
func (r *Recorder) End(ctx context.Context, id string) {
	if err := r.store.EndConversation(ctx, id); err != nil {
		r.log.WithContext(ctx).WithError(err).Warn("Failed to log conversation end", logger.Fields(logger.FieldConversationID, id))
	}
}

// LogTurn appends one message. It satisfies chat.TurnLogger and never
// returns an error.
func (r *Recorder) LogTurn(ctx context.Context, conversationID string, role llm.Role, content, model string) error {
	if err := r.store.LogMessage(ctx, conversationID, role, content, model, nil); err != nil {
		r.log.WithContext(ctx).WithError(err).Warn("Failed to log message", logger.Fields(
			logger.FieldConversationID, conversationID,
			"role", string(role),
		))
	}
	return nil
}
