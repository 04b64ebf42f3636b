package llm

import (
	"context"
	"errors"
	"io"

	"github.com/kbukum/llmgate/httpclient"
)

// chunkIterator pulls vendor events until one carries text.
type chunkIterator struct {
	resp      *httpclient.StreamResponse
	dialect   Dialect
	model     string
	messageID string
	finished  bool
}

// Next returns the next non-empty chunk. It returns (zero, false, nil) once the
// vendor end marker or EOF is reached, and a non-nil error on a vendor error
// event, a malformed event or a transport failure.
func (it *chunkIterator) Next(ctx context.Context) (Chunk, bool, error) {
	if it.finished {
		return Chunk{}, false, nil
	}
	for {
		if err := ctx.Err(); err != nil {
			it.finish()
			return Chunk{}, false, err
		}

		ev, err := it.resp.SSE.Next()
		if err != nil {
			it.finish()
			if errors.Is(err, io.EOF) {
				return Chunk{}, false, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Chunk{}, false, ctxErr
			}
			return Chunk{}, false, httpclient.NewConnectionError(err)
		}

		text, done, err := it.dialect.ParseStreamEvent(ev)
		if err != nil {
			it.finish()
			return Chunk{}, false, err
		}
		if text != "" {
			// A final event may carry text and the end marker together.
			if done {
				it.finish()
			}
			return Chunk{MessageID: it.messageID, Content: text, Model: it.model}, true, nil
		}
		if done {
			it.finish()
			return Chunk{}, false, nil
		}
	}
}

// Close tears down the HTTP body. Safe to call more than once.
func (it *chunkIterator) Close() error {
	it.finished = true
	return it.resp.Close()
}

func (it *chunkIterator) finish() {
	it.finished = true
	_ = it.resp.Close()
}
