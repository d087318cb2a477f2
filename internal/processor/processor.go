package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/extractor"
	"github.com/claraliu715-tech/chat-with-echo/internal/fallback"
	"github.com/claraliu715-tech/chat-with-echo/internal/generation"
	"github.com/claraliu715-tech/chat-with-echo/internal/hermes"
	"github.com/claraliu715-tech/chat-with-echo/internal/intent"
	"github.com/claraliu715-tech/chat-with-echo/internal/prompt"
	"github.com/claraliu715-tech/chat-with-echo/internal/style"
)

// Source says which path produced a draft.
const (
	SourceModel         = "model"
	SourceModelFallback = "model+fallback"
	SourceFallback      = "fallback"
	SourceCanned        = "canned"
)

// Reasons for a degraded draft. The generation taxonomy labels come from
// generation.Reason.
const (
	ReasonExtractionEmpty = "extraction_empty"
	ReasonAssistantVoice  = "assistant_voice"
	ReasonOffline         = "offline"
	ReasonInternal        = "internal"
)

const DefaultTimeout = 60 * time.Second

// Canned is the fixed result of degraded mode.
func Canned() draft.Result {
	return draft.Result{
		Reply: "Just following up — let me know when you have a moment.",
		Options: []string{
			"Checking in — feel free to reply when you’re free.",
			"Just wanted to check in.",
			"Let me know when you get a chance.",
		},
	}
}

// Publisher receives an event for every finished draft.
type Publisher interface {
	PublishDraft(hermes.DraftEvent) error
}

type Options struct {
	Timeout          time.Duration
	Canned           bool
	AssistantPhrases []string
	Classifier       intent.Classifier
	Events           Publisher
}

// Outcome is a finished draft plus how it was reached.
type Outcome struct {
	ID        uuid.UUID
	Result    draft.Result
	Source    string
	Reason    string
	Intention bool
	Kind      intent.Kind
}

// Processor runs the drafting pipeline: build instructions, call the model once,
// extract, validate, and repair with the local fallback when anything fails.
type Processor struct {
	gen        generation.Client
	extractor  *extractor.Extractor
	fallback   *fallback.Generator
	classifier intent.Classifier
	gate       *QualityGate
	timeout    time.Duration
	canned     bool
	events     Publisher
	logger     *slog.Logger
}

// New builds a processor. A nil gen runs offline: every draft comes from the
// fallback generator.
func New(gen generation.Client, opts Options, logger *slog.Logger) *Processor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Classifier == nil {
		opts.Classifier = intent.Heuristic{}
	}
	return &Processor{
		gen:        gen,
		extractor:  extractor.New(logger),
		fallback:   fallback.New(opts.Classifier),
		classifier: opts.Classifier,
		gate:       NewQualityGate(opts.AssistantPhrases...),
		timeout:    opts.Timeout,
		canned:     opts.Canned,
		events:     opts.Events,
		logger:     logger,
	}
}

// Draft always returns a sendable result; failures only show up in Source and Reason.
func (p *Processor) Draft(ctx context.Context, req draft.Request) Outcome {
	start := time.Now()
	req = req.WithDefaults()
	out := Outcome{ID: uuid.New()}

	if p.canned {
		out.Result = Canned()
		out.Source = SourceCanned
		out.Kind = intent.KindGeneric
		p.finish(req, out, start)
		return out
	}

	labels := style.Resolve(req.Tone, req.Scenario)
	cls := p.classifier.Classify(req.Message)
	out.Intention = cls.Intention

	kind, fb := p.fallback.Draft(req.Message, labels)
	out.Kind = kind

	res, reason := p.tryModel(ctx, out.ID, req, labels, cls)
	switch {
	case reason != "":
		out.Result, out.Source, out.Reason = fb, SourceFallback, reason
	case len(res.Options) < draft.MaxOptions:
		var added bool
		res.Options, added = mergeOptions(res.Options, fb.Options)
		out.Result, out.Source = res, SourceModel
		if added {
			out.Source = SourceModelFallback
		}
	default:
		out.Result, out.Source = res, SourceModel
	}

	out.Result = out.Result.Normalize()
	if out.Result.Reply == "" {
		out.Result.Reply = fallback.LastResort
	}

	p.finish(req, out, start)
	return out
}

// tryModel returns the accepted model result, or the reason it was not usable.
func (p *Processor) tryModel(ctx context.Context, id uuid.UUID, req draft.Request, labels style.Labels, cls intent.Classification) (res draft.Result, reason string) {
	if p.gen == nil {
		return draft.Result{}, ReasonOffline
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("model path panicked", "draft_id", id, "panic", fmt.Sprint(r))
			res, reason = draft.Result{}, ReasonInternal
		}
	}()

	in := prompt.Build(req, labels, cls)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.gen.Generate(ctx, in)
	if err != nil {
		label := generation.Reason(err)
		attrs := []any{"draft_id", id, "provider", p.gen.Name(), "reason", label, "error", err}
		if errors.Is(err, generation.ErrConfiguration) {
			p.logger.Error("generation not configured", attrs...)
		} else {
			p.logger.Warn("generation failed", attrs...)
		}
		return draft.Result{}, label
	}

	res, strategy := p.extractor.Extract(raw)
	if res.Reply == "" {
		p.logger.Warn("no reply in model output", "draft_id", id, "raw_len", len(raw))
		return draft.Result{}, ReasonExtractionEmpty
	}
	if !p.gate.Accepts(res.Reply) {
		p.logger.Info("model reply rejected by quality gate", "draft_id", id, "strategy", strategy)
		return draft.Result{}, ReasonAssistantVoice
	}

	res.Options = p.gate.FilterOptions(res.Options)
	return res, ""
}

func (p *Processor) finish(req draft.Request, out Outcome, start time.Time) {
	latency := time.Since(start)
	p.logger.Info("draft complete",
		"draft_id", out.ID,
		"mode", req.Mode.Label(),
		"source", out.Source,
		"reason", out.Reason,
		"intention", out.Intention,
		"kind", out.Kind,
		"message_len", len(req.Message),
		"options", len(out.Result.Options),
		"latency_ms", latency.Milliseconds(),
	)

	if p.events == nil {
		return
	}
	evt := hermes.DraftEvent{
		DraftID:   out.ID.String(),
		Mode:      req.Mode.Label(),
		Source:    out.Source,
		Reason:    out.Reason,
		Intention: out.Intention,
		Kind:      string(out.Kind),
		LatencyMS: latency.Milliseconds(),
		Options:   len(out.Result.Options),
		Timestamp: time.Now().UTC(),
	}
	if p.gen != nil && out.Source != SourceCanned {
		evt.Provider = p.gen.Name()
	}
	if err := p.events.PublishDraft(evt); err != nil {
		p.logger.Warn("failed to publish draft event", "draft_id", out.ID, "error", err)
	}
}
