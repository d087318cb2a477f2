package intent

import (
	"fmt"
	"strings"

	"github.com/claraliu715-tech/chat-with-echo/internal/style"
)

// noQuestionsClause ends every normalized instruction.
const noQuestionsClause = "Do not ask me what I want or any clarifying question. Output the literal message I will send, " +
	"using at most that one bracketed placeholder for anything you cannot know."

// Normalized is an explicit drafting instruction derived from a terse intention.
type Normalized struct {
	Kind        Kind
	Topic       string
	Instruction string
}

// Normalize rewrites a terse intention ("ask about ddl", "say no") into an
// unambiguous instruction for the generation backend.
func Normalize(message string, labels style.Labels) Normalized {
	rules, def := normalizerRules(labels)
	_, n := Dispatch(rules, def, message)
	return n
}

func normalizerRules(labels style.Labels) ([]Rule[Normalized], Rule[Normalized]) {
	context := fmt.Sprintf("The message is for this situation: %s. Tone: %s.", labels.Scenario, labels.Tone)

	build := func(kind Kind, topic, body string) Normalized {
		return Normalized{
			Kind:        kind,
			Topic:       topic,
			Instruction: strings.Join([]string{body, context, noQuestionsClause}, " "),
		}
	}

	rules := []Rule[Normalized]{
		{
			Kind:  KindAskAbout,
			Match: IsAskAbout,
			Handle: func(message string) Normalized {
				topic, _ := AskTopic(message)
				return build(KindAskAbout, topic, fmt.Sprintf(
					"Write a ready-to-send message in which I ask about %s. "+
						"Include exactly one placeholder, [your question], where my specific question goes.", topic))
			},
		},
		{
			Kind:  KindFollowUp,
			Match: IsFollowUp,
			Handle: func(string) Normalized {
				return build(KindFollowUp, "", "Write a calm, ready-to-send follow-up message. "+
					"Use the placeholder [what I'm following up on] for the subject of the follow-up.")
			},
		},
		{
			Kind:  KindDecline,
			Match: IsDecline,
			Handle: func(string) Normalized {
				return build(KindDecline, "", "Write a polite, ready-to-send message declining a request. "+
					"Use the placeholder [request] for what is being declined. You may offer one short alternative.")
			},
		},
		{
			Kind:  KindApologize,
			Match: IsApologize,
			Handle: func(string) Normalized {
				return build(KindApologize, "", "Write a brief, ready-to-send apology that asks the other person to clarify. "+
					"Use the placeholder [confusing part] for what was unclear.")
			},
		},
		{
			Kind:  KindStartFriendly,
			Match: IsStartFriendly,
			Handle: func(string) Normalized {
				return build(KindStartFriendly, "", "Write a friendly, ready-to-send opener that leads into my point. "+
					"Use the placeholder [main point] for the point itself.")
			},
		},
	}

	def := Rule[Normalized]{
		Kind: KindGeneric,
		Handle: func(message string) Normalized {
			return build(KindGeneric, "", fmt.Sprintf(
				"Write a ready-to-send message that does this: %q. "+
					"Use the placeholder [details] for any specifics you cannot infer.", strings.TrimSpace(message)))
		},
	}

	return rules, def
}
