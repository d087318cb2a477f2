package extractor

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
)

// Strategy names which parser recovered the result.
type Strategy string

const (
	StrategyWhole   Strategy = "whole"
	StrategySpan    Strategy = "span"
	StrategySalvage Strategy = "salvage"
	StrategyNone    Strategy = "none"
)

type parser struct {
	name  Strategy
	parse func(text string) (draft.Result, bool)
}

// Extractor recovers a {reply, options} record from raw model output. The
// parsers run in order and the first success wins.
type Extractor struct {
	parsers []parser
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	return &Extractor{
		parsers: []parser{
			{StrategyWhole, parseWhole},
			{StrategySpan, parseSpan},
			{StrategySalvage, salvageReply},
		},
		logger: logger,
	}
}

// Extract never fails. When nothing is recoverable it returns an empty reply
// with no options and StrategyNone; the caller decides what to do about it.
func (e *Extractor) Extract(raw string) (draft.Result, Strategy) {
	text := strings.TrimSpace(raw)
	for _, p := range e.parsers {
		if res, ok := p.parse(text); ok {
			res = res.Normalize()
			e.logger.Debug("extracted model output",
				"strategy", p.name,
				"reply_len", len(res.Reply),
				"options", len(res.Options),
			)
			return res, p.name
		}
	}

	e.logger.Debug("nothing extractable in model output", "raw_len", len(raw))
	return draft.Result{Options: []string{}}, StrategyNone
}

func parseWhole(text string) (draft.Result, bool) {
	return parseObject(text)
}

var spanRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseSpan tries the widest brace-delimited span, for output wrapped in prose.
func parseSpan(text string) (draft.Result, bool) {
	span := spanRe.FindString(text)
	if span == "" {
		return draft.Result{}, false
	}
	return parseObject(span)
}

func parseObject(text string) (draft.Result, bool) {
	if !gjson.Valid(text) {
		return draft.Result{}, false
	}
	obj := gjson.Parse(text)
	if !obj.IsObject() {
		return draft.Result{}, false
	}

	// Only JSON strings count; nested values would otherwise come back as raw JSON.
	var res draft.Result
	if reply := obj.Get("reply"); reply.Type == gjson.String {
		res.Reply = reply.Str
	}
	if opts := obj.Get("options"); opts.IsArray() {
		for _, o := range opts.Array() {
			if o.Type == gjson.String {
				res.Options = append(res.Options, o.Str)
			}
		}
	}
	return res, true
}

var replyFieldRe = regexp.MustCompile(`(?s)"reply"\s*:\s*"((?:\\.|[^"\\])*)"`)

var unescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t", `\"`, `"`)

// salvageReply pulls a "reply" string field out of text that is not valid JSON.
func salvageReply(text string) (draft.Result, bool) {
	m := replyFieldRe.FindStringSubmatch(text)
	if m == nil {
		return draft.Result{}, false
	}
	return draft.Result{Reply: unescaper.Replace(m[1])}, true
}
