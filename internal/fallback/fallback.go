// Package fallback drafts messages locally from fixed templates. It is used
// whenever the generation backend is unavailable or its reply is rejected.
package fallback

import (
	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/intent"
	"github.com/claraliu715-tech/chat-with-echo/internal/style"
)

// LastResort is used if every other path yields an empty reply.
const LastResort = "Thanks for your message. I'll get back to you shortly."

// Generator composes drafts from the greeting and politeness tables. It never
// calls out and never fails.
type Generator struct {
	classifier intent.Classifier
}

// New returns a generator that reads messages with c, or the heuristic
// classifier when c is nil.
func New(c intent.Classifier) *Generator {
	if c == nil {
		c = intent.Heuristic{}
	}
	return &Generator{classifier: c}
}

// Generate drafts with the default classifier.
func Generate(message, tone, scenario string) draft.Result {
	_, res := New(nil).Draft(message, style.Resolve(tone, scenario))
	return res
}

// Draft returns the kind of message it recognised and the composed draft.
// The same inputs always produce the same output.
func (g *Generator) Draft(message string, labels style.Labels) (intent.Kind, draft.Result) {
	t := templates{greet: labels.Greeting(), Particles: labels.Particles()}

	var (
		kind intent.Kind
		res  draft.Result
	)
	if g.classifier.Classify(message).Intention {
		def := intent.Rule[draft.Result]{Kind: intent.KindGeneric, Handle: t.generic}
		kind, res = intent.Dispatch(t.rules(), def, message)
	} else {
		// Received text is answered, never mined for an intention.
		kind, res = intent.KindReply, t.reply(message)
	}

	res = res.Normalize()
	if res.Reply == "" {
		res.Reply = LastResort
	}
	return kind, res
}

type templates struct {
	greet string
	style.Particles
}

func (t templates) rules() []intent.Rule[draft.Result] {
	return []intent.Rule[draft.Result]{
		{Kind: intent.KindFollowUp, Match: intent.IsFollowUp, Handle: t.followUp},
		{Kind: intent.KindDecline, Match: intent.IsDecline, Handle: t.decline},
		{Kind: intent.KindApologize, Match: intent.IsApologize, Handle: t.apologize},
		{Kind: intent.KindStartFriendly, Match: intent.IsStartFriendly, Handle: t.startFriendly},
		{Kind: intent.KindAskAbout, Match: intent.IsAskAbout, Handle: t.askAbout},
		{Kind: intent.KindAsk, Match: intent.IsAsk, Handle: t.ask},
	}
}

// couldYou is "Could you" with the tone's please particle.
func (t templates) couldYou() string {
	return "Could you" + t.Please
}

func (t templates) followUp(string) draft.Result {
	const ph = "[what I'm following up on]"
	return draft.Result{
		Reply: t.greet + "I just wanted to follow up on " + ph + "." + t.Soften,
		Options: []string{
			"Just checking in on " + ph + "." + t.Soften,
			t.greet + t.couldYou() + " let me know if there's any update on " + ph + "?",
			"Following up on my earlier message about " + ph + "." + t.Soften,
		},
	}
}

func (t templates) decline(string) draft.Result {
	const ph = "[request]"
	return draft.Result{
		Reply: t.greet + "thank you for thinking of me, but I won't be able to do " + ph + " this time." + t.Soften,
		Options: []string{
			t.greet + "unfortunately I can't take on " + ph + " right now." + t.Soften,
			"I appreciate you asking, but I'll have to pass on " + ph + "." + t.Soften,
			t.greet + "I can't do " + ph + ", but I'd be glad to help another time." + t.Soften,
		},
	}
}

func (t templates) apologize(string) draft.Result {
	const ph = "[confusing part]"
	return draft.Result{
		Reply: t.greet + "sorry for the confusion. " + t.couldYou() + " clarify " + ph + "?" + t.Soften,
		Options: []string{
			"Apologies, I want to make sure I understand. " + t.couldYou() + " explain " + ph + " again?" + t.Soften,
			t.greet + "sorry, I'm not sure I followed " + ph + ". " + t.couldYou() + " clarify?",
			"Sorry about that. " + t.couldYou() + " say a bit more about " + ph + "?" + t.Soften,
		},
	}
}

func (t templates) startFriendly(string) draft.Result {
	const ph = "[main point]"
	return draft.Result{
		Reply: t.greet + "hope you're doing well! I wanted to reach out about " + ph + "." + t.Soften,
		Options: []string{
			t.greet + "hope your week is going well. Quick note about " + ph + "." + t.Soften,
			"Hope all is well! I wanted to touch base about " + ph + "." + t.Soften,
			t.greet + "great to catch up. I wanted to mention " + ph + "." + t.Soften,
		},
	}
}

func (t templates) askAbout(message string) draft.Result {
	const ph = "[your question]"
	topic, _ := intent.AskTopic(message)
	return draft.Result{
		Reply: t.greet + "I had a quick question about " + topic + ". " + ph + t.Soften,
		Options: []string{
			t.greet + t.couldYou() + " tell me a bit more about " + topic + "? " + ph + t.Soften,
			"Quick question about " + topic + ": " + ph + t.Soften,
			t.greet + "I was wondering about " + topic + ". " + ph + t.Soften,
		},
	}
}

func (t templates) ask(string) draft.Result {
	const ph = "[your question]"
	return draft.Result{
		Reply: t.greet + "I had a quick question. " + ph + t.Soften,
		Options: []string{
			t.greet + t.couldYou() + " help me with something? " + ph + t.Soften,
			"Quick question: " + ph + t.Soften,
			t.greet + "I was wondering if you could help with " + ph + "." + t.Soften,
		},
	}
}

// reply answers reported speech rather than drafting from an intention.
func (t templates) reply(string) draft.Result {
	const ph = "[details]"
	return draft.Result{
		Reply: t.greet + "thanks for your message. I'll get back to you about " + ph + " shortly." + t.Soften,
		Options: []string{
			"Thanks for letting me know!" + t.Soften,
			t.greet + "got it, thank you. I'll follow up on " + ph + " soon.",
			"Thanks for the update. " + t.couldYou() + " share more about " + ph + "?" + t.Soften,
		},
	}
}

func (t templates) generic(string) draft.Result {
	const ph = "[details]"
	return draft.Result{
		Reply: t.greet + "I wanted to reach out about " + ph + "." + t.Soften,
		Options: []string{
			t.greet + t.couldYou() + " let me know your thoughts on " + ph + "?" + t.Soften,
			"Just a quick note about " + ph + "." + t.Soften,
			t.greet + "I'm writing regarding " + ph + "." + t.Soften,
		},
	}
}
