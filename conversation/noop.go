package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/llm"
)

// Noop is the Store used when persistence is disabled. It hands out IDs
// and forgets everything.
type Noop struct{}

var _ Store = Noop{}

func (Noop) StartConversation(context.Context, string, string, map[string]any) (string, error) {
	return uuid.NewString(), nil
}

func (Noop) EndConversation(context.Context, string) error { return nil }

func (Noop) LogMessage(context.Context, string, llm.Role, string, string, *int) error { return nil }

func (Noop) GetConversation(_ context.Context, id string) (*Conversation, error) {
	return nil, apperrors.NotFound("conversation", id)
}

func (Noop) RecentConversations(context.Context, int, int) ([]Summary, error) {
	return []Summary{}, nil
}

func (Noop) SearchConversations(context.Context, SearchQuery) ([]Summary, error) {
	return []Summary{}, nil
}

func (Noop) Stats(context.Context) (*Stats, error) {
	return &Stats{ProviderStats: map[string]int64{}}, nil
}

func (Noop) Cleanup(context.Context, time.Duration) (int64, error) { return 0, nil }
