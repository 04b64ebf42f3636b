// Package groq registers the Groq dialect, an OpenAI-compatible wire format
// served under a different base URL.
package groq

import (
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/llm/openai"
)

const (
	// DialectName is the registered dialect name.
	DialectName = "groq"

	// DefaultBaseURL is Groq's OpenAI-compatible root.
	DefaultBaseURL = "https://api.groq.com/openai"
)

func init() {
	llm.RegisterDialect(DialectName, New())
}

// New returns the Groq dialect.
func New() *openai.Dialect {
	return openai.Named(DialectName, DefaultBaseURL)
}
