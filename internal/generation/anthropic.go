package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claraliu715-tech/chat-with-echo/internal/prompt"
)

const (
	anthropicURL          = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
)

// Anthropic calls the Messages API directly. It has no schema parameter, so the
// JSON shape is requested by the system instruction alone.
type Anthropic struct {
	apiKey string
	model  string
	apiURL string
	client *http.Client
}

func NewAnthropic(apiKey, model string, timeout time.Duration) *Anthropic {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{
		apiKey: apiKey,
		model:  model,
		apiURL: anthropicURL,
		client: &http.Client{Timeout: timeout},
	}
}

// SetTestTransport points the client at a test server.
func (c *Anthropic) SetTestTransport(url string) {
	c.apiURL = url
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type anthropicError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Anthropic) Name() string { return "anthropic" }

func (c *Anthropic) Generate(ctx context.Context, in prompt.Instructions) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: missing ANTHROPIC_API_KEY", ErrConfiguration)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   MaxOutputTokens,
		Temperature: Temperature,
		System:      in.System,
		Messages:    []anthropicMessage{{Role: "user", Content: in.User}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classify(c.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(c.Name(), err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicError
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", statusError(c.Name(), resp.StatusCode, errResp.Error.Type+": "+errResp.Error.Message)
		}
		return "", statusError(c.Name(), resp.StatusCode, string(respBody))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("%w: anthropic: unmarshal response: %w", ErrUpstreamMalformed, err)
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", emptyText(c.Name())
	}
	return text, nil
}
