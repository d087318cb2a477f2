package intent

import (
	"regexp"
	"strings"
)

// Kind is the drafting taxonomy shared by the normalizer and the fallback generator.
type Kind string

const (
	KindAskAbout      Kind = "ask_about"
	KindAsk           Kind = "ask"
	KindFollowUp      Kind = "follow_up"
	KindDecline       Kind = "decline"
	KindApologize     Kind = "apologize"
	KindStartFriendly Kind = "start_friendly"
	KindReply         Kind = "reply"
	KindGeneric       Kind = "generic"
)

// Rule pairs a predicate over the lowercased, trimmed message with the kind it selects.
// Tables of rules are evaluated in order; the first match wins.
type Rule[T any] struct {
	Kind   Kind
	Match  func(lower string) bool
	Handle func(message string) T
}

// Dispatch runs message through rules and returns the first matching handler's
// result. The default handles anything no rule claims.
func Dispatch[T any](rules []Rule[T], def Rule[T], message string) (Kind, T) {
	lower := Lower(message)
	for _, r := range rules {
		if r.Match(lower) {
			return r.Kind, r.Handle(message)
		}
	}
	return def.Kind, def.Handle(message)
}

// Lower is the canonical form the predicates operate on.
func Lower(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

func hasAnyPrefix(lower string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func IsFollowUp(lower string) bool {
	return hasAnyPrefix(lower, "follow up", "follow-up", "followup")
}

func IsDecline(lower string) bool {
	return hasAnyPrefix(lower, "say no", "decline", "turn down")
}

func IsApologize(lower string) bool {
	return hasAnyPrefix(lower, "apologise", "apologize", "clarify")
}

func IsStartFriendly(lower string) bool {
	return strings.HasPrefix(lower, "start friendly")
}

// IsAsk matches a bare "ask ..." intention with no topic.
func IsAsk(lower string) bool {
	return lower == "ask" || strings.HasPrefix(lower, "ask ")
}

var askAboutRe = regexp.MustCompile(`(?is)\bask.*?\babout\b(.*)$`)

// IsAskAbout reports whether the word "ask" appears followed later by "about".
func IsAskAbout(lower string) bool {
	return askAboutRe.MatchString(lower)
}

// AskTopic returns what follows "about" in an ask-about message, without
// trailing punctuation. An empty remainder yields "it".
func AskTopic(message string) (string, bool) {
	m := askAboutRe.FindStringSubmatch(strings.TrimSpace(message))
	if m == nil {
		return "", false
	}
	topic := strings.TrimRight(strings.TrimSpace(m[1]), ".!? ")
	if topic == "" {
		topic = "it"
	}
	return topic, true
}
