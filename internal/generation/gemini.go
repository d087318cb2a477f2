package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/prompt"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini calls generateContent through the Google GenAI SDK with a response schema.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewGemini(apiKey, model, baseURL string, timeout time.Duration) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, in prompt.Instructions) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: missing GEMINI_API_KEY", ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.http,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	})
	if err != nil {
		return "", fmt.Errorf("%w: create gemini client: %w", ErrConfiguration, err)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(in.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(in.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		MaxOutputTokens:   MaxOutputTokens,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiReplySchema(),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError(g.Name(), apiErr.Code, apiErr.Message)
		}
		return "", classify(g.Name(), err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", emptyText(g.Name())
	}
	return text, nil
}

func geminiReplySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reply": {Type: genai.TypeString},
			"options": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				MaxItems: genai.Ptr[int64](draft.MaxOptions),
			},
		},
		Required: []string{"reply"},
	}
}
