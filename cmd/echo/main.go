package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claraliu715-tech/chat-with-echo/internal/config"
	"github.com/claraliu715-tech/chat-with-echo/internal/generation"
	"github.com/claraliu715-tech/chat-with-echo/internal/hermes"
	"github.com/claraliu715-tech/chat-with-echo/internal/processor"
)

var rootCmd = &cobra.Command{
	Use:           "echo",
	Short:         "Draft ready-to-send messages in your own voice",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, draftCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads .env (when present) and then the environment.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}
	return config.Load(), nil
}

// newProcessor wires the drafting pipeline from cfg. offline skips the
// generation backend entirely.
func newProcessor(cfg config.Config, events processor.Publisher, offline bool) (*processor.Processor, error) {
	phrases, err := config.LoadPhrases(cfg.QualityPhrasesFile)
	if err != nil {
		return nil, err
	}

	var gen generation.Client
	if !offline {
		gen, err = generation.New(cfg)
		if err != nil {
			return nil, err
		}
	}

	return processor.New(gen, processor.Options{
		Timeout:          cfg.GenerationTimeout,
		Canned:           cfg.UseMock,
		AssistantPhrases: phrases,
		Events:           events,
	}, slog.Default()), nil
}

// connectEvents returns nil when NATS is not configured.
func connectEvents(ctx context.Context, cfg config.Config) (*hermes.Client, error) {
	if cfg.NatsURL == "" {
		return nil, nil
	}
	client, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		return nil, err
	}
	slog.Info("NATS connected", "url", cfg.NatsURL)
	return client, nil
}

func setupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
