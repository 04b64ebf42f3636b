package chat

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/observability"
	"github.com/kbukum/llmgate/provider"
	"github.com/kbukum/llmgate/sse"
)

type phase int

const (
	phaseDefault phase = iota
	phaseFallback
	phaseDone
	phaseFailed
)

// Stream yields the wire frames of one chat reply: a frame per content chunk
// followed by exactly one done frame. A Stream is not safe for concurrent use.
type Stream struct {
	o              *Orchestrator
	adapter        *llm.Adapter
	provider       string
	defModel       string
	fbModel        string
	conv           llm.Conversation
	payload        llm.Payload
	messageID      string
	conversationID string
	started        time.Time
	span           trace.Span
	log            *logger.Logger

	phase      phase
	it         provider.Iterator[llm.Chunk]
	attempt    trace.Span
	attemptN   int
	model      string
	emitted    int
	reply      strings.Builder
	defaultErr error
	err        error
	closed     bool
}

// Next returns the next wire frame. ok is false once the done frame has been
// returned or the stream failed; err is set in the latter case.
//
// A failure of the default model falls through to the fallback model unless
// content already reached the caller. A failure of the fallback model ends the
// stream with a FallbackExhausted error and no done frame.
func (s *Stream) Next(ctx context.Context) (frame string, ok bool, err error) {
	for {
		switch s.phase {
		case phaseDone:
			return "", false, nil
		case phaseFailed:
			return "", false, s.err
		}

		if s.it == nil {
			if err := s.open(ctx); err != nil {
				if s.handleFailure(ctx, err) {
					continue
				}
				return "", false, s.err
			}
		}

		chunk, more, err := s.it.Next(ctx)
		if err != nil {
			s.endAttempt(err)
			if s.handleFailure(ctx, err) {
				continue
			}
			return "", false, s.err
		}
		if !more {
			s.endAttempt(nil)
			s.finish(ctx)
			return sse.FrameDone(), true, nil
		}

		s.emitted++
		s.reply.WriteString(chunk.Content)
		return sse.FrameChunk(chunk), true, nil
	}
}

// Close releases the open vendor connection. Closing a stream that has not
// finished counts it as cancelled.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.phase == phaseDone || s.phase == phaseFailed {
		return nil
	}
	s.endAttempt(context.Canceled)
	s.phase = phaseFailed
	s.err = context.Canceled
	s.end(context.Background(), observability.OutcomeCancelled, s.err)
	return nil
}

// Model returns the model of the current or last attempt.
func (s *Stream) Model() string { return s.model }

// Reply returns the assistant text streamed so far.
func (s *Stream) Reply() string { return s.reply.String() }

func (s *Stream) open(ctx context.Context) error {
	s.model = s.defModel
	if s.phase == phaseFallback {
		s.model = s.fbModel
	}
	s.attemptN++

	attemptCtx := trace.ContextWithSpan(ctx, s.span)
	attemptCtx, s.attempt = observability.StartSpan(attemptCtx, observability.SpanChatAttempt, trace.WithAttributes(
		attribute.String(observability.AttrProvider, s.provider),
		attribute.String(observability.AttrModel, s.model),
		attribute.Int(observability.AttrAttempt, s.attemptN),
	))

	it, err := s.adapter.Stream(attemptCtx, s.payload, s.model, s.messageID)
	if err != nil {
		s.endAttempt(err)
		return err
	}
	s.it = it
	return nil
}

func (s *Stream) endAttempt(err error) {
	if s.it != nil {
		_ = s.it.Close()
		s.it = nil
	}
	if s.attempt == nil {
		return
	}
	if err != nil {
		observability.SetSpanError(s.attempt, err)
	}
	s.attempt.End()
	s.attempt = nil
}

// handleFailure decides what follows a failed attempt. It returns true when
// the fallback attempt should start.
func (s *Stream) handleFailure(ctx context.Context, err error) bool {
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.fail(ctx, ctxErr, observability.OutcomeCancelled)
		return false
	}

	if s.phase == phaseFallback {
		s.fail(ctx, apperrors.FallbackExhausted(s.provider, s.defModel, s.defaultErr, s.fbModel, err), observability.OutcomeFailed)
		return false
	}

	if s.emitted > 0 && !s.o.cfg.FallbackAfterPartial {
		s.fail(ctx, apperrors.UpstreamStream(s.provider, s.defModel, err), observability.OutcomeFailed)
		return false
	}

	s.defaultErr = err
	s.phase = phaseFallback
	s.log.WithError(err).Warn("default model failed, trying fallback", logger.Fields(
		logger.FieldModel, s.defModel,
		"fallback_model", s.fbModel,
		logger.FieldChunks, s.emitted,
	))
	if s.o.observer != nil {
		s.o.observer.RecordFallback(ctx, s.provider)
	}
	return true
}

func (s *Stream) fail(ctx context.Context, err error, outcome string) {
	s.phase = phaseFailed
	s.err = err
	if outcome == observability.OutcomeCancelled {
		s.log.Info("stream cancelled", logger.Fields(logger.FieldChunks, s.emitted))
	} else {
		s.log.WithError(err).Error("stream failed", logger.Fields(logger.FieldChunks, s.emitted))
	}
	s.end(ctx, outcome, err)
}

func (s *Stream) finish(ctx context.Context) {
	outcome := observability.OutcomeOK
	if s.phase == phaseFallback {
		outcome = observability.OutcomeFallback
	}
	s.phase = phaseDone
	s.logTurns(ctx)
	s.log.Info("stream completed", logger.Fields(
		logger.FieldModel, s.model,
		logger.FieldChunks, s.emitted,
		logger.FieldDuration, s.o.now().Sub(s.started).Milliseconds(),
	))
	s.end(ctx, outcome, nil)
}

func (s *Stream) end(ctx context.Context, outcome string, err error) {
	elapsed := s.o.now().Sub(s.started)
	if s.o.observer != nil {
		s.o.observer.RecordStreamEnd(context.WithoutCancel(ctx), s.provider, s.model, outcome, s.emitted, elapsed)
	}
	s.span.SetAttributes(
		attribute.String(observability.AttrModel, s.model),
		attribute.String(observability.AttrStatus, outcome),
		attribute.Int(observability.AttrChunks, s.emitted),
		attribute.Int64(observability.AttrDurationMs, elapsed.Milliseconds()),
	)
	if err != nil && outcome != observability.OutcomeCancelled {
		observability.SetSpanError(s.span, err)
	}
	s.span.End()
}

// logTurns records the last user message and the assembled reply. Failures
// are logged and dropped.
func (s *Stream) logTurns(ctx context.Context) {
	if s.o.turns == nil || s.conversationID == "" {
		return
	}
	bg := context.WithoutCancel(ctx)
	if user, ok := s.conv.LastUser(); ok {
		if err := s.o.turns.LogTurn(bg, s.conversationID, llm.RoleUser, user.Content, ""); err != nil {
			s.log.WithError(err).Warn("failed to log user turn")
		}
	}
	if err := s.o.turns.LogTurn(bg, s.conversationID, llm.RoleAssistant, s.reply.String(), s.model); err != nil {
		s.log.WithError(err).Warn("failed to log assistant turn")
	}
}
