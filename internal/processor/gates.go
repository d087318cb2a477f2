package processor

import (
	"strings"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
)

// DefaultAssistantPhrases mark text that answers the user instead of drafting
// a message for them to send.
var DefaultAssistantPhrases = []string{
	"happy to help",
	"go ahead and ask",
	"what would you like",
	"what are your questions",
}

// QualityGate rejects assistant-voiced model output.
type QualityGate struct {
	phrases []string
}

// NewQualityGate builds a gate from the default phrases plus extra. Extra
// phrases extend the list; they never replace it.
func NewQualityGate(extra ...string) *QualityGate {
	phrases := make([]string, 0, len(DefaultAssistantPhrases)+len(extra))
	seen := make(map[string]bool)
	for _, p := range append(append([]string{}, DefaultAssistantPhrases...), extra...) {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		phrases = append(phrases, p)
	}
	return &QualityGate{phrases: phrases}
}

// Phrases returns the active phrase list.
func (g *QualityGate) Phrases() []string {
	return append([]string(nil), g.phrases...)
}

// Accepts reports whether text is non-empty and free of assistant-voice phrases.
func (g *QualityGate) Accepts(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, p := range g.phrases {
		if strings.Contains(lower, p) {
			return false
		}
	}
	return true
}

// FilterOptions drops options the gate would reject.
func (g *QualityGate) FilterOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if g.Accepts(o) {
			out = append(out, o)
		}
	}
	return out
}

// mergeOptions tops up accepted model options with fallback options, skipping
// duplicates, until MaxOptions or the extras run out. It reports whether any
// were added.
func mergeOptions(have, extra []string) ([]string, bool) {
	out := append(make([]string, 0, draft.MaxOptions), have...)
	seen := make(map[string]bool, len(have))
	for _, o := range have {
		seen[strings.TrimSpace(o)] = true
	}

	added := false
	for _, o := range extra {
		if len(out) >= draft.MaxOptions {
			break
		}
		key := strings.TrimSpace(o)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
		added = true
	}
	return out, added
}
