package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/fallback"
	"github.com/claraliu715-tech/chat-with-echo/internal/generation"
	"github.com/claraliu715-tech/chat-with-echo/internal/hermes"
	"github.com/claraliu715-tech/chat-with-echo/internal/intent"
	"github.com/claraliu715-tech/chat-with-echo/internal/prompt"
	"github.com/claraliu715-tech/chat-with-echo/internal/style"
)

func TestMain(m *testing.M) {
	// genai's auth transport pulls in opencensus, whose view worker starts in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClient struct {
	text  string
	err   error
	block bool
	panic string

	mu    sync.Mutex
	calls int
	last  prompt.Instructions
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Generate(ctx context.Context, in prompt.Instructions) (string, error) {
	f.mu.Lock()
	f.calls++
	f.last = in
	f.mu.Unlock()

	if f.panic != "" {
		panic(f.panic)
	}
	if f.block {
		<-ctx.Done()
		return "", fmt.Errorf("%w: fake: %w", generation.ErrUpstreamUnavailable, ctx.Err())
	}
	return f.text, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []hermes.DraftEvent
	err    error
}

func (r *recordingPublisher) PublishDraft(evt hermes.DraftEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

func fallbackFor(message, tone, scenario string) draft.Result {
	_, res := fallback.New(nil).Draft(message, style.Resolve(tone, scenario))
	return res
}

func TestDraft_ModelAccepted(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "Sure, see you at 5!", "options": ["See you at 5", "5 works for me", "Great, 5 it is"]}`}
	p := New(gen, Options{}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "Can you make it at 5 today? Let me know soon please"})

	want := draft.Result{Reply: "Sure, see you at 5!", Options: []string{"See you at 5", "5 works for me", "Great, 5 it is"}}
	if diff := cmp.Diff(want, out.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if out.Source != SourceModel || out.Reason != "" {
		t.Errorf("expected clean model outcome, got source=%s reason=%s", out.Source, out.Reason)
	}
	if out.Intention {
		t.Error("long pasted message should be reported speech")
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generation call, got %d", gen.calls)
	}
}

func TestDraft_PadsOptionsFromFallback(t *testing.T) {
	gen := &fakeClient{text: `Here you go: {"reply": "Hi, just checking in on the report.", "options": ["Any news on the report?"]}`}
	p := New(gen, Options{}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "follow up"})

	if out.Source != SourceModelFallback {
		t.Errorf("expected %s, got %s", SourceModelFallback, out.Source)
	}
	if out.Result.Reply != "Hi, just checking in on the report." {
		t.Errorf("model reply must be kept, got %q", out.Result.Reply)
	}
	if len(out.Result.Options) != draft.MaxOptions {
		t.Fatalf("expected %d options, got %v", draft.MaxOptions, out.Result.Options)
	}
	if out.Result.Options[0] != "Any news on the report?" {
		t.Errorf("model option must come first, got %v", out.Result.Options)
	}
	fb := fallbackFor("follow up", "", "")
	if diff := cmp.Diff(fb.Options[:2], out.Result.Options[1:]); diff != "" {
		t.Errorf("padding mismatch (-want +got):\n%s", diff)
	}
}

func TestDraft_AssistantVoiceReplaced(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "Happy to help! What would you like to ask?", "options": ["A", "B", "C"]}`}
	p := New(gen, Options{}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "ask about the deadline"})

	if diff := cmp.Diff(fallbackFor("ask about the deadline", "", ""), out.Result); diff != "" {
		t.Errorf("expected fallback result wholesale (-want +got):\n%s", diff)
	}
	if out.Source != SourceFallback || out.Reason != ReasonAssistantVoice {
		t.Errorf("expected fallback/assistant_voice, got %s/%s", out.Source, out.Reason)
	}
	if out.Kind != intent.KindAskAbout {
		t.Errorf("expected ask_about kind, got %s", out.Kind)
	}
}

func TestDraft_ExtraPhrases(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "How can I assist you today?"}`}
	p := New(gen, Options{AssistantPhrases: []string{"How can I assist"}}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "say no"})

	if out.Reason != ReasonAssistantVoice {
		t.Errorf("expected configured phrase to reject reply, got reason %q", out.Reason)
	}
}

func TestDraft_FiltersAssistantOptions(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "Thanks, that works.", "options": ["Happy to help with that!", "Works for me."]}`}
	p := New(gen, Options{}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "reply yes"})

	for _, o := range out.Result.Options {
		if strings.Contains(strings.ToLower(o), "happy to help") {
			t.Errorf("assistant-voiced option leaked: %q", o)
		}
	}
	if out.Result.Options[0] != "Works for me." {
		t.Errorf("expected surviving model option first, got %v", out.Result.Options)
	}
}

func TestDraft_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		gen    *fakeClient
		reason string
	}{
		{"configuration", &fakeClient{err: fmt.Errorf("%w: missing key", generation.ErrConfiguration)}, "configuration"},
		{"unavailable", &fakeClient{err: fmt.Errorf("%w: dial tcp", generation.ErrUpstreamUnavailable)}, "upstream_unavailable"},
		{"status", &fakeClient{err: fmt.Errorf("%w: 503", generation.ErrUpstreamError)}, "upstream_error"},
		{"malformed", &fakeClient{err: fmt.Errorf("%w: no text", generation.ErrUpstreamMalformed)}, "upstream_malformed"},
		{"extraction empty", &fakeClient{text: "I'm not sure what you mean."}, ReasonExtractionEmpty},
		{"empty reply field", &fakeClient{text: `{"reply": "   ", "options": ["x"]}`}, ReasonExtractionEmpty},
		{"object reply field", &fakeClient{text: `{"reply": {"text": "hi"}, "options": [{"a":1}]}`}, ReasonExtractionEmpty},
		{"panic", &fakeClient{panic: "boom"}, ReasonInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.gen, Options{}, discardLogger())

			out := p.Draft(context.Background(), draft.Request{Message: "decline", Tone: "Polite"})

			if out.Source != SourceFallback {
				t.Errorf("expected fallback source, got %s", out.Source)
			}
			if out.Reason != tt.reason {
				t.Errorf("expected reason %s, got %s", tt.reason, out.Reason)
			}
			if diff := cmp.Diff(fallbackFor("decline", "Polite", ""), out.Result); diff != "" {
				t.Errorf("fallback mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDraft_Timeout(t *testing.T) {
	gen := &fakeClient{block: true}
	p := New(gen, Options{Timeout: 20 * time.Millisecond}, discardLogger())

	start := time.Now()
	out := p.Draft(context.Background(), draft.Request{Message: "follow up", Tone: "Polite", Scenario: "professor"})

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("deadline not enforced, took %s", elapsed)
	}
	if out.Reason != "upstream_unavailable" {
		t.Errorf("expected upstream_unavailable, got %s", out.Reason)
	}
	if !strings.HasPrefix(out.Result.Reply, "Hello Professor, ") {
		t.Errorf("expected professor greeting, got %q", out.Result.Reply)
	}
	if !strings.Contains(out.Result.Reply, "[what I'm following up on]") {
		t.Errorf("expected follow-up placeholder, got %q", out.Result.Reply)
	}
	if !strings.HasSuffix(out.Result.Reply, " Thank you!") {
		t.Errorf("expected polite suffix, got %q", out.Result.Reply)
	}
}

func TestDraft_Canned(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "unused"}`}
	p := New(gen, Options{Canned: true}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "anything at all"})

	if diff := cmp.Diff(Canned(), out.Result); diff != "" {
		t.Errorf("canned mismatch (-want +got):\n%s", diff)
	}
	if out.Source != SourceCanned {
		t.Errorf("expected canned source, got %s", out.Source)
	}
	if gen.calls != 0 {
		t.Errorf("canned mode must not call the backend, got %d calls", gen.calls)
	}
}

func TestDraft_Offline(t *testing.T) {
	p := New(nil, Options{}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "start friendly", Scenario: "friend"})

	if out.Source != SourceFallback || out.Reason != ReasonOffline {
		t.Errorf("expected fallback/offline, got %s/%s", out.Source, out.Reason)
	}
	if !strings.HasPrefix(out.Result.Reply, "Hey, ") {
		t.Errorf("expected friend greeting, got %q", out.Result.Reply)
	}
}

func TestDraft_AllModesAlwaysSendable(t *testing.T) {
	modes := []draft.Mode{"", draft.ModeChat, draft.ModeRewriteShorter, draft.ModeRewritePoliter, draft.ModeRewriteConfident, "rewrite_sideways"}
	gens := map[string]*fakeClient{
		"ok":     {text: `{"reply": "Done.", "options": ["a","b","c","d","e"]}`},
		"failed": {err: generation.ErrUpstreamUnavailable},
		"junk":   {text: "!!!"},
	}

	for name, gen := range gens {
		for _, mode := range modes {
			t.Run(name+"/"+string(mode), func(t *testing.T) {
				p := New(gen, Options{}, discardLogger())
				out := p.Draft(context.Background(), draft.Request{Message: "I can't make it tomorrow", Mode: mode})

				if strings.TrimSpace(out.Result.Reply) == "" {
					t.Error("reply must never be empty")
				}
				if len(out.Result.Options) > draft.MaxOptions {
					t.Errorf("expected at most %d options, got %d", draft.MaxOptions, len(out.Result.Options))
				}
				if out.Result.Options == nil {
					t.Error("options must never be nil")
				}
			})
		}
	}
}

func TestDraft_RewriteModeInstructions(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "Running late, sorry!"}`}
	p := New(gen, Options{}, discardLogger())

	p.Draft(context.Background(), draft.Request{Message: "hey so sorry I am going to be a bit late", Mode: draft.ModeRewriteShorter})

	if !strings.Contains(gen.last.User, "hey so sorry I am going to be a bit late") {
		t.Errorf("expected draft text in user instruction, got %q", gen.last.User)
	}
	if !strings.Contains(gen.last.System, "Calm") || !strings.Contains(gen.last.System, "general") {
		t.Errorf("expected default labels in system instruction, got %q", gen.last.System)
	}
}

func TestDraft_ClassifierOverride(t *testing.T) {
	gen := &fakeClient{text: `{"reply": "See you then."}`}
	reported := intent.ClassifierFunc(func(string) intent.Classification {
		return intent.Classification{Intention: false, Rationale: intent.RationaleReportedSpeech}
	})
	p := New(gen, Options{Classifier: reported}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "see you at 5"})

	if out.Intention {
		t.Error("override classifier must be used")
	}
	if out.Kind != intent.KindReply {
		t.Errorf("expected reply kind, got %s", out.Kind)
	}
	if !strings.Contains(gen.last.User, "see you at 5") {
		t.Errorf("expected reported speech wrapped in user instruction, got %q", gen.last.User)
	}
}

func TestDraft_PublishesEvents(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("nats down")}
	p := New(&fakeClient{err: generation.ErrUpstreamError}, Options{Events: pub}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{Message: "follow up", Mode: draft.ModeChat})

	if out.Result.Reply == "" {
		t.Fatal("publish failure must not affect the draft")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.DraftID != out.ID.String() {
		t.Errorf("event id %s does not match outcome %s", evt.DraftID, out.ID)
	}
	if evt.Source != SourceFallback || evt.Reason != "upstream_error" || evt.Provider != "fake" {
		t.Errorf("unexpected event %+v", evt)
	}
	if evt.Kind != string(intent.KindFollowUp) || evt.Mode != "chat" {
		t.Errorf("unexpected kind/mode in event %+v", evt)
	}
}

func TestDraft_UniqueIDs(t *testing.T) {
	p := New(nil, Options{}, discardLogger())
	a := p.Draft(context.Background(), draft.Request{Message: "x"})
	b := p.Draft(context.Background(), draft.Request{Message: "x"})
	if a.ID == b.ID {
		t.Error("expected distinct draft ids")
	}
}

func TestDraft_ReportedSpeechFallbackIsAReply(t *testing.T) {
	p := New(&fakeClient{err: generation.ErrUpstreamUnavailable}, Options{}, discardLogger())

	out := p.Draft(context.Background(), draft.Request{
		Message: "Could you ask your advisor about the funding for next semester and let me know by Friday?",
	})

	if out.Intention {
		t.Fatal("long received message must be reported speech")
	}
	if out.Kind != intent.KindReply {
		t.Errorf("expected reply kind, got %s", out.Kind)
	}
	if strings.Contains(out.Result.Reply, "next semester") {
		t.Errorf("fallback reply splices in received text: %q", out.Result.Reply)
	}
}

func TestDraft_UnknownModeEventLabel(t *testing.T) {
	pub := &recordingPublisher{}
	gen := &fakeClient{text: `{"reply": "Rewritten."}`}
	p := New(gen, Options{Events: pub}, discardLogger())

	p.Draft(context.Background(), draft.Request{Message: "see you later", Mode: "rewrite_like_a_pirate"})

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if pub.events[0].Mode != draft.ModeOther {
		t.Errorf("expected mode %q in event, got %q", draft.ModeOther, pub.events[0].Mode)
	}
	if !strings.Contains(gen.last.User, "Rewrite the user's draft.") {
		t.Errorf("unknown mode should use the generic rewrite, got %q", gen.last.User)
	}
}
