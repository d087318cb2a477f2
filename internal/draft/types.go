package draft

import "strings"

// MaxOptions caps the number of alternative messages returned with a reply.
const MaxOptions = 3

// Mode selects what the drafting pipeline does with the incoming message.
type Mode string

const (
	ModeChat             Mode = "chat"
	ModeRewriteShorter   Mode = "rewrite_shorter"
	ModeRewritePoliter   Mode = "rewrite_politer"
	ModeRewriteConfident Mode = "rewrite_confident"
)

// ParseMode never fails. Empty input means chat; unknown values are kept as-is
// and end up in the generic rewrite branch of the instruction builder.
func ParseMode(s string) Mode {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeChat
	}
	return Mode(s)
}

// Known reports whether m is one of the four enumerated modes.
func (m Mode) Known() bool {
	switch m {
	case ModeChat, ModeRewriteShorter, ModeRewritePoliter, ModeRewriteConfident:
		return true
	}
	return false
}

// ModeOther labels any unrecognised mode in logs and events.
const ModeOther = "other"

// Label is m for the four known modes and ModeOther for anything else, so
// caller-supplied strings never reach logs or events.
func (m Mode) Label() string {
	if m.Known() {
		return string(m)
	}
	return ModeOther
}

const (
	DefaultTone     = "Calm"
	DefaultScenario = "general"
)

// Request is one drafting call as received from the caller.
type Request struct {
	Message  string `json:"message"`
	Tone     string `json:"tone,omitempty"`
	Scenario string `json:"scenario,omitempty"`
	Mode     Mode   `json:"mode,omitempty"`
}

// WithDefaults returns a copy with absent tone, scenario and mode filled in.
func (r Request) WithDefaults() Request {
	if strings.TrimSpace(r.Tone) == "" {
		r.Tone = DefaultTone
	}
	if strings.TrimSpace(r.Scenario) == "" {
		r.Scenario = DefaultScenario
	}
	r.Mode = ParseMode(string(r.Mode))
	return r
}

// Result is the only shape the caller ever sees.
type Result struct {
	Reply   string   `json:"reply"`
	Options []string `json:"options"`
}

// Normalize trims the reply and options, drops empty and duplicate options and
// caps them at MaxOptions. Options is never nil afterwards.
func (r Result) Normalize() Result {
	out := Result{
		Reply:   strings.TrimSpace(r.Reply),
		Options: make([]string, 0, MaxOptions),
	}
	seen := make(map[string]bool, len(r.Options))
	for _, o := range r.Options {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out.Options = append(out.Options, o)
		if len(out.Options) == MaxOptions {
			break
		}
	}
	return out
}
