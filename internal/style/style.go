package style

import (
	"slices"
	"strings"
	"unicode"
)

// Scenario labels.
const (
	ScenarioGeneral   = "general"
	ScenarioProfessor = "talking to a professor"
	ScenarioFriend    = "messaging a friend"
	ScenarioStranger  = "replying to a stranger"
)

// Tone labels.
const (
	ToneCalm     = "Calm"
	ToneFriendly = "Friendly"
	TonePolite   = "Polite"
	ToneDirect   = "Direct"
)

type keywordRule struct {
	label    string
	keywords []string // matched anywhere
	words    []string // short forms, matched as whole words only
}

// Checked in order; first matching keyword wins.
var scenarioRules = []keywordRule{
	{label: ScenarioProfessor, keywords: []string{"professor", "lecturer", "teacher", "tutor", "supervisor"}, words: []string{"prof"}},
	{label: ScenarioFriend, keywords: []string{"friend", "buddy", "bestie"}, words: []string{"mate", "mates"}},
	{label: ScenarioStranger, keywords: []string{"stranger", "someone new", "unknown", "don't know"}},
}

var toneRules = []keywordRule{
	{label: ToneFriendly, keywords: []string{"friendly", "warm", "casual"}},
	{label: TonePolite, keywords: []string{"polite", "formal", "respectful"}},
	{label: ToneDirect, keywords: []string{"direct", "blunt", "concise", "straight"}},
}

// Labels is the canonical form of a free-form tone/scenario pair.
type Labels struct {
	Scenario string
	Tone     string
}

// Resolve maps raw tone and scenario strings onto their labels.
func Resolve(tone, scenario string) Labels {
	return Labels{
		Scenario: ResolveScenario(scenario),
		Tone:     ResolveTone(tone),
	}
}

func ResolveScenario(raw string) string {
	return match(scenarioRules, raw, ScenarioGeneral)
}

func ResolveTone(raw string) string {
	return match(toneRules, raw, ToneCalm)
}

func match(rules []keywordRule, raw, fallback string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return fallback
	}
	words := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(s, kw) {
				return r.label
			}
		}
		for _, w := range words {
			if slices.Contains(r.words, w) {
				return r.label
			}
		}
	}
	return fallback
}

var greetings = map[string]string{
	ScenarioProfessor: "Hello Professor, ",
	ScenarioStranger:  "Hi, ",
	ScenarioFriend:    "Hey, ",
}

// Greeting returns the opener for a scenario label, "Hi, " when unknown.
func Greeting(scenario string) string {
	if g, ok := greetings[scenario]; ok {
		return g
	}
	return "Hi, "
}

// Particles are the tone-dependent fragments spliced into drafted messages.
type Particles struct {
	Please string // inserted after "Could you"
	Soften string // appended to the end of the message
}

var particles = map[string]Particles{
	ToneDirect:   {Please: "", Soften: ""},
	TonePolite:   {Please: " please", Soften: " Thank you!"},
	ToneFriendly: {Please: "", Soften: " Thanks!"},
	ToneCalm:     {Please: "", Soften: ""},
}

// ParticlesFor returns the politeness fragments for a tone label.
func ParticlesFor(tone string) Particles {
	return particles[tone]
}

// Greeting and ParticlesFor bound to the resolved labels.
func (l Labels) Greeting() string     { return Greeting(l.Scenario) }
func (l Labels) Particles() Particles { return ParticlesFor(l.Tone) }
