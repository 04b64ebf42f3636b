package chat

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/observability"
)

// Orchestrator streams a conversation through a provider's default model and
// falls back to its fallback model on failure.
type Orchestrator struct {
	cfg      *Config
	registry *Registry
	log      *logger.Logger
	turns    TurnLogger
	observer Observer
	now      func() time.Time
}

// Option configures an Orchestrator or a HealthProbe.
type Option func(*options)

type options struct {
	log      *logger.Logger
	turns    TurnLogger
	observer Observer
	now      func() time.Time
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTurnLogger sets the conversation turn logger.
func WithTurnLogger(t TurnLogger) Option {
	return func(o *options) { o.turns = t }
}

// WithObserver sets the metrics observer.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	return o
}

// NewOrchestrator creates an orchestrator over registry.
func NewOrchestrator(cfg *Config, registry *Registry, opts ...Option) *Orchestrator {
	o := buildOptions(opts)
	return &Orchestrator{
		cfg:      cfg,
		registry: registry,
		log:      o.log.WithComponent("chat"),
		turns:    o.turns,
		observer: o.observer,
		now:      o.now,
	}
}

// RunOption configures one Run.
type RunOption func(*Stream)

// WithConversationID tags the stream's logged turns with a conversation ID.
func WithConversationID(id string) RunOption {
	return func(s *Stream) { s.conversationID = id }
}

// Run prepares a stream of wire frames for conv on providerName.
//
// Unsupported and unavailable providers fail here, before any network call.
// The vendor call starts on the first Stream.Next. conv must already be validated.
func (o *Orchestrator) Run(ctx context.Context, conv llm.Conversation, providerName string, opts ...RunOption) (*Stream, error) {
	adapter, err := o.registry.GetOrInit(providerName)
	if err != nil {
		return nil, err
	}
	settings := adapter.Settings()

	systemPrompt := ResolveSystemPrompt(conv, providerName, o.cfg.PromptDefaults())
	started := o.now()

	s := &Stream{
		o:         o,
		adapter:   adapter,
		provider:  providerName,
		defModel:  settings.DefaultModel,
		fbModel:   settings.FallbackModel,
		conv:      conv,
		payload:   adapter.FormatMessages(conv, systemPrompt),
		messageID: fmt.Sprintf("%s-%d", providerName, started.UnixMilli()),
		started:   started,
	}
	for _, opt := range opts {
		opt(s)
	}

	_, s.span = observability.StartSpan(ctx, observability.SpanChatStream, trace.WithAttributes(
		attribute.String(observability.AttrProvider, providerName),
		attribute.String(observability.AttrMessageID, s.messageID),
		attribute.String(observability.AttrConversationID, s.conversationID),
	))
	s.log = o.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldProvider, providerName,
		logger.FieldMessageID, s.messageID,
	))
	s.log.Info("stream started", logger.Fields(logger.FieldModel, s.defModel, "messages", len(conv)))
	return s, nil
}

// MessageID returns the ID stamped on every chunk of a stream.
func (s *Stream) MessageID() string { return s.messageID }
