package conversation

import (
	"context"
	"time"

	"github.com/kbukum/llmgate/logger"
)

// Sweep runs store.Cleanup for retention immediately and then every
// interval until ctx is done. Failures are logged and the next tick retries.
func Sweep(ctx context.Context, store Store, retention, interval time.Duration, log *logger.Logger) {
	log = log.WithComponent("conversation-retention")
	sweep := func() {
		if _, err := store.Cleanup(ctx, retention); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("Conversation cleanup failed")
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
