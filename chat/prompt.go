package chat

import (
	"strings"
	"unicode"

	"github.com/kbukum/llmgate/llm"
)

// PromptDefaults holds the fallback system prompts.
type PromptDefaults struct {
	ByProvider map[string]string
	Generic    string
}

// ResolveSystemPrompt picks the effective system instruction for a conversation.
//
// System messages whose content is only whitespace and periods are ignored.
// The rest are joined verbatim with a single space. With none left, the
// provider default applies, then the generic default.
func ResolveSystemPrompt(conv llm.Conversation, provider string, defaults PromptDefaults) string {
	var parts []string
	for _, m := range conv.SystemMessages() {
		if isTrivial(m.Content) {
			continue
		}
		parts = append(parts, m.Content)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if p, ok := defaults.ByProvider[provider]; ok && p != "" {
		return p
	}
	if defaults.Generic != "" {
		return defaults.Generic
	}
	return GenericSystemPrompt
}

func isTrivial(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	}) == ""
}
