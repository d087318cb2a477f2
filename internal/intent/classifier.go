package intent

import "strings"

// MaxIntentionTokens is the largest message, in whitespace-separated tokens,
// that is treated as a drafting intention without a prefix match.
const MaxIntentionTokens = 6

// intentionPrefixes mark a message as something the user wants to send.
var intentionPrefixes = []string{
	"write a ",
	"rewrite ",
	"draft ",
	"generate ",
	"help me ",
	"ask ",
	"follow up",
	"follow-up",
	"followup",
	"say no",
	"decline",
	"turn down",
	"apologise",
	"apologize",
	"start friendly",
	"clarify",
	"please write",
	"can you write",
}

// Rationale values on a Classification.
const (
	RationalePrefix         = "prefix"
	RationaleShort          = "short"
	RationaleReportedSpeech = "reported_speech"
)

// Classification is the tagged result of deciding between a drafting
// intention (mode B) and reported speech (mode A).
type Classification struct {
	Intention  bool
	Confidence float64 // 0.0-1.0
	Rationale  string
	Prefix     string // matched prefix, if any
	Tokens     int
}

// Classifier decides how to read an incoming message.
type Classifier interface {
	Classify(message string) Classification
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(message string) Classification

func (f ClassifierFunc) Classify(message string) Classification { return f(message) }

// Heuristic is the default classifier: known instruction prefixes, or short
// messages, are intentions. Short pasted messages are misread as intentions;
// callers who know better can supply their own Classifier.
type Heuristic struct{}

func (Heuristic) Classify(message string) Classification {
	return Classify(message)
}

// Classify applies the heuristic policy.
func Classify(message string) Classification {
	lower := strings.ToLower(strings.TrimSpace(message))
	tokens := len(strings.Fields(lower))

	for _, p := range intentionPrefixes {
		if strings.HasPrefix(lower, p) {
			return Classification{
				Intention:  true,
				Confidence: 0.9,
				Rationale:  RationalePrefix,
				Prefix:     p,
				Tokens:     tokens,
			}
		}
	}

	if tokens <= MaxIntentionTokens {
		return Classification{
			Intention:  true,
			Confidence: 0.6,
			Rationale:  RationaleShort,
			Tokens:     tokens,
		}
	}

	return Classification{
		Intention:  false,
		Confidence: 0.7,
		Rationale:  RationaleReportedSpeech,
		Tokens:     tokens,
	}
}
