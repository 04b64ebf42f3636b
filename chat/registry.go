package chat

import (
	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/provider"

	// Vendor dialects register themselves.
	_ "github.com/kbukum/llmgate/llm/anthropic"
	_ "github.com/kbukum/llmgate/llm/gemini"
	_ "github.com/kbukum/llmgate/llm/groq"
	_ "github.com/kbukum/llmgate/llm/openai"
)

// AdapterFactory builds an adapter from settings.
type AdapterFactory func(llm.Settings) (*llm.Adapter, error)

// Registry resolves provider names to lazily built, cached adapters.
type Registry struct {
	cfg     *Config
	inner   *provider.Registry[*llm.Adapter]
	factory AdapterFactory
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAdapterFactory replaces llm.New as the adapter constructor.
func WithAdapterFactory(f AdapterFactory) RegistryOption {
	return func(r *Registry) { r.factory = f }
}

// NewRegistry creates a registry over the supported providers of cfg.
// cfg must have defaults applied.
func NewRegistry(cfg *Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		cfg:     cfg,
		inner:   provider.NewRegistry[*llm.Adapter](),
		factory: llm.New,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, name := range cfg.SupportedProviders {
		settings, ok := cfg.Providers[name]
		if !ok {
			continue
		}
		r.inner.RegisterFactory(name, func() (*llm.Adapter, error) {
			return r.factory(settings)
		})
	}
	return r
}

// GetOrInit returns the adapter for name, building it on first use.
//
// Unsupported names fail with UNSUPPORTED_PROVIDER. Supported providers
// without an API key fail with PROVIDER_UNAVAILABLE on every call, and
// nothing is built or cached for them.
func (r *Registry) GetOrInit(name string) (*llm.Adapter, error) {
	settings, known := r.cfg.Providers[name]
	if !r.cfg.IsSupported(name) || !known {
		return nil, apperrors.UnsupportedProvider(name, r.cfg.SupportedProviders)
	}
	if !settings.Configured() {
		return nil, apperrors.ProviderUnavailable(name, "API key not configured")
	}

	a, err := r.inner.GetOrInit(name)
	if err != nil {
		return nil, apperrors.ProviderUnavailable(name, err.Error()).WithCause(err)
	}
	return a, nil
}

// ListInitialized returns the sorted names of the adapters built so far.
func (r *Registry) ListInitialized() []string {
	return r.inner.ListInitialized()
}

// Supported returns the provider names served by this deployment.
func (r *Registry) Supported() []string {
	out := make([]string, len(r.cfg.SupportedProviders))
	copy(out, r.cfg.SupportedProviders)
	return out
}

// Settings returns the settings of a supported provider.
func (r *Registry) Settings(name string) (llm.Settings, bool) {
	if !r.cfg.IsSupported(name) {
		return llm.Settings{}, false
	}
	s, ok := r.cfg.Providers[name]
	return s, ok
}
