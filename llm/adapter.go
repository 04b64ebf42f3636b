package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/llmgate/httpclient"
	"github.com/kbukum/llmgate/provider"
	"github.com/kbukum/llmgate/resilience"
)

// Adapter is a config-driven chat client that works with any vendor via the Dialect pattern.
//
// It owns one long-lived httpclient.Client (connection pool, auth, breaker)
// and holds no per-request state; the system prompt is a parameter of
// FormatMessages. An Adapter is safe for concurrent use.
type Adapter struct {
	client   *httpclient.Client
	dialect  Dialect
	settings Settings
}

// New creates an adapter using the global dialect registry.
// The settings' Dialect field (or Name) must match a registered dialect.
func New(s Settings) (*Adapter, error) {
	s.ApplyDefaults()

	dialect, err := GetDialect(s.Dialect)
	if err != nil {
		return nil, err
	}
	return newAdapter(dialect, s)
}

// NewWithDialect creates an adapter with an explicit dialect instance.
func NewWithDialect(dialect Dialect, s Settings) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	s.ApplyDefaults()
	return newAdapter(dialect, s)
}

func newAdapter(dialect Dialect, s Settings) (*Adapter, error) {
	baseURL := strings.TrimRight(s.BaseURL, "/")
	if baseURL == "" {
		baseURL = dialect.DefaultBaseURL()
	}

	var cb *resilience.CircuitBreakerConfig
	if s.CircuitBreaker != nil {
		c := *s.CircuitBreaker
		if c.Name == "" {
			c.Name = s.Name
		}
		cb = &c
	}

	client, err := httpclient.New(httpclient.Config{
		BaseURL:        baseURL,
		Timeout:        s.Timeout,
		Auth:           dialect.Auth(s.APIKey),
		Headers:        dialect.Headers(),
		Retry:          s.Retry,
		CircuitBreaker: cb,
		TLS:            s.TLS,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: create http client: %w", err)
	}

	return &Adapter{client: client, dialect: dialect, settings: s}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string { return a.settings.Name }

// IsAvailable reports whether the adapter has credentials and its breaker is not open.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	return a.settings.Configured() && a.client.BreakerState() != resilience.StateOpen
}

// Settings returns the settings the adapter was built with.
func (a *Adapter) Settings() Settings { return a.settings }

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// FormatMessages shapes a conversation for the vendor.
func (a *Adapter) FormatMessages(conv Conversation, systemPrompt string) Payload {
	return a.dialect.FormatMessages(conv, systemPrompt)
}

// Stream opens a streaming generation for model and returns a pull iterator
// of chunks stamped with messageID. The caller must Close the iterator.
func (a *Adapter) Stream(ctx context.Context, payload Payload, model, messageID string) (provider.Iterator[Chunk], error) {
	params := Params{
		Model:       model,
		Temperature: a.settings.temperature(),
		MaxTokens:   a.settings.MaxTokens,
		Stream:      true,
	}
	body, err := a.dialect.BuildRequest(payload, params)
	if err != nil {
		return nil, fmt.Errorf("llm: build stream request: %w", err)
	}

	ep := a.dialect.Endpoint(model, true)
	resp, err := a.client.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   ep.Path,
		Query:  ep.Query,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	return &chunkIterator{
		resp:      resp,
		dialect:   a.dialect,
		model:     model,
		messageID: messageID,
	}, nil
}

// HealthCheck asks the probe question against model and returns the trimmed reply.
// Temperature is 0 and the seed is 0 where the vendor supports one.
func (a *Adapter) HealthCheck(ctx context.Context, model string, probe Probe) (string, error) {
	conv := Conversation{{Role: RoleUser, Content: probe.Prompt}}
	payload := a.dialect.FormatMessages(conv, probe.System)
	seed := 0
	params := Params{
		Model:     model,
		MaxTokens: probe.MaxTokens,
		Seed:      &seed,
	}

	if sh, ok := a.dialect.(StreamingHealth); ok && sh.HealthViaStream() {
		return a.drain(ctx, payload, params)
	}

	body, err := a.dialect.BuildRequest(payload, params)
	if err != nil {
		return "", fmt.Errorf("llm: build health request: %w", err)
	}
	ep := a.dialect.Endpoint(model, false)
	resp, err := a.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   ep.Path,
		Query:  ep.Query,
		Body:   body,
	})
	if err != nil {
		return "", err
	}

	text, err := a.dialect.ParseResponse(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// drain collects a whole stream into one string.
func (a *Adapter) drain(ctx context.Context, payload Payload, params Params) (string, error) {
	if deadline := a.settings.Timeout; deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	params.Stream = true
	body, err := a.dialect.BuildRequest(payload, params)
	if err != nil {
		return "", fmt.Errorf("llm: build health request: %w", err)
	}
	ep := a.dialect.Endpoint(params.Model, true)
	resp, err := a.client.DoStream(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   ep.Path,
		Query:  ep.Query,
		Body:   body,
	})
	if err != nil {
		return "", err
	}

	it := &chunkIterator{resp: resp, dialect: a.dialect, model: params.Model}
	defer func() { _ = it.Close() }()

	var sb strings.Builder
	for {
		chunk, ok, err := it.Next(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		sb.WriteString(chunk.Content)
	}
	return strings.TrimSpace(sb.String()), nil
}
