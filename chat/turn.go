package chat

import (
	"context"
	"time"

	"github.com/kbukum/llmgate/llm"
)

// TurnLogger records completed conversation turns. Logging is best effort:
// the orchestrator logs a failure and carries on.
type TurnLogger interface {
	LogTurn(ctx context.Context, conversationID string, role llm.Role, content, model string) error
}

// TurnLoggerFunc adapts a function to TurnLogger.
type TurnLoggerFunc func(ctx context.Context, conversationID string, role llm.Role, content, model string) error

// LogTurn calls f.
func (f TurnLoggerFunc) LogTurn(ctx context.Context, conversationID string, role llm.Role, content, model string) error {
	return f(ctx, conversationID, role, content, model)
}

// Observer receives stream and probe measurements.
// *observability.StreamMetrics implements it.
type Observer interface {
	RecordFallback(ctx context.Context, provider string)
	RecordStreamEnd(ctx context.Context, provider, model, outcome string, chunks int, elapsed time.Duration)
	RecordHealth(ctx context.Context, provider string, ok bool, elapsed time.Duration)
}
