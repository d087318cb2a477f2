package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	LogLevel string

	// UseMock bypasses the pipeline and returns the canned draft.
	UseMock bool

	Provider          string
	GenerationTimeout time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	AnthropicAPIKey string
	AnthropicModel  string

	FrontendDir        string
	CORSAllowedOrigins []string

	NatsURL   string
	NatsToken string

	QualityPhrasesFile string
}

func Load() Config {
	return Config{
		Port:               envInt("PORT", 8000),
		LogLevel:           envStr("LOG_LEVEL", "info"),
		UseMock:            envBool("USE_MOCK", false),
		Provider:           strings.ToLower(envStr("GENERATION_PROVIDER", "gemini")),
		GenerationTimeout:  envDuration("GENERATION_TIMEOUT", 60*time.Second),
		GeminiAPIKey:       envStr("GEMINI_API_KEY", ""),
		GeminiModel:        envStr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:      envStr("GEMINI_BASE_URL", ""),
		OpenAIAPIKey:       envStr("OPENAI_API_KEY", ""),
		OpenAIModel:        envStr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      envStr("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:    envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     envStr("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		FrontendDir:        envStr("FRONTEND_DIR", "frontend"),
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		NatsURL:            envStr("NATS_URL", ""),
		NatsToken:          envStr("NATS_TOKEN", ""),
		QualityPhrasesFile: envStr("QUALITY_PHRASES_FILE", ""),
	}
}

// LoadDotEnv reads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return err
		}
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envBool only treats "true" (any case) as true, matching USE_MOCK=true.
func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// envDuration accepts a Go duration ("45s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
