package generation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/prompt"
)

// Client performs the single call to a text-generation backend. Implementations
// make one attempt and never retry.
type Client interface {
	Name() string
	Generate(ctx context.Context, in prompt.Instructions) (string, error)
}

var (
	// ErrConfiguration means the backend cannot be called at all (missing credential).
	ErrConfiguration = errors.New("generation: configuration error")
	// ErrUpstreamUnavailable covers transport failures and deadline expiry.
	ErrUpstreamUnavailable = errors.New("generation: upstream unavailable")
	// ErrUpstreamError is a non-success status from the backend.
	ErrUpstreamError = errors.New("generation: upstream error")
	// ErrUpstreamMalformed is a success response with no usable text.
	ErrUpstreamMalformed = errors.New("generation: upstream malformed")
)

// Sampling parameters shared by every backend.
const (
	Temperature     = 0.15
	MaxOutputTokens = 800
)

// Reason returns a short label for err's place in the taxonomy, for logs and headers.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrUpstreamError):
		return "upstream_error"
	default:
		return "upstream_malformed"
	}
}

// classify maps an SDK or transport error that is not an API status error onto
// the taxonomy. Backends check their own API error types first.
func classify(provider string, err error) error {
	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled),
		errors.As(err, &urlErr), errors.As(err, &netErr):
		return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, provider, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrUpstreamMalformed, provider, err)
	}
}

func statusError(provider string, status int, msg string) error {
	return fmt.Errorf("%w: %s returned %d: %s", ErrUpstreamError, provider, status, msg)
}

func emptyText(provider string) error {
	return fmt.Errorf("%w: %s returned no text", ErrUpstreamMalformed, provider)
}

// replySchema is the requested structured output: a required reply and up to
// three options.
func replySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": draft.MaxOptions,
			},
		},
		"required":             []string{"reply"},
		"additionalProperties": false,
	}
}
