package llm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/llmgate/httpclient"
	"github.com/kbukum/llmgate/httpclient/sse"
)

// Endpoint is the path and query of one vendor call.
type Endpoint struct {
	Path  string
	Query map[string]string
}

// Dialect maps the universal chat types to and from one vendor's HTTP format.
//
// Dialect implementations live in subpackages (llm/openai, llm/anthropic, ...)
// and register themselves from init via [RegisterDialect].
type Dialect interface {
	// Name returns the dialect identifier (e.g., "openai", "anthropic").
	Name() string

	// DefaultBaseURL is used when the settings carry no base URL.
	DefaultBaseURL() string

	// Auth returns the authentication applied to every request.
	Auth(apiKey string) *httpclient.AuthConfig

	// Headers are extra headers sent with every request.
	Headers() map[string]string

	// FormatMessages strips or relocates system messages per vendor convention
	// and maps roles. Relative order of non-system messages is preserved.
	FormatMessages(conv Conversation, systemPrompt string) Payload

	// Endpoint returns where to send a request for model.
	Endpoint(model string, stream bool) Endpoint

	// BuildRequest maps a payload and parameters to the vendor JSON body.
	BuildRequest(p Payload, params Params) (any, error)

	// ParseStreamEvent extracts text from one stream event. done reports the
	// vendor end-of-stream marker. Control events return "", false, nil.
	ParseStreamEvent(ev *sse.Event) (text string, done bool, err error)

	// ParseResponse extracts the reply text from a non-streaming body.
	ParseResponse(body []byte) (string, error)
}

// StreamingHealth is implemented by dialects whose health check drains a
// stream instead of making a single completion call.
type StreamingHealth interface {
	HealthViaStream() bool
}

// --- Dialect Registry ---

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry.
// Typically called from init() in dialect packages:
//
//	func init() {
//	    llm.RegisterDialect("openai", Dialect{})
//	}
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the sorted names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
