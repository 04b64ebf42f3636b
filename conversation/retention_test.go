package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/llmgate/logger"
)

type sweepStore struct {
	Noop
	calls chan time.Duration
	err   error
}

func (s *sweepStore) Cleanup(_ context.Context, retention time.Duration) (int64, error) {
	s.calls <- retention
	return 0, s.err
}

func TestSweep(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"cleanup failure keeps sweeping", errors.New("disk full")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &sweepStore{calls: make(chan time.Duration, 8), err: tt.err}
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				Sweep(ctx, store, 48*time.Hour, 5*time.Millisecond, logger.Nop())
				close(done)
			}()

			for i := 0; i < 2; i++ {
				select {
				case got := <-store.calls:
					if got != 48*time.Hour {
						t.Errorf("retention = %v, want 48h", got)
					}
				case <-time.After(2 * time.Second):
					t.Fatalf("sweep %d did not run", i+1)
				}
			}
			cancel()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Sweep did not return after cancel")
			}
		})
	}
}
