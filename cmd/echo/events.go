package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/claraliu715-tech/chat-with-echo/internal/hermes"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print draft events from NATS as JSON lines",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel, os.Stderr)

	if cfg.NatsURL == "" {
		return errors.New("NATS_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := connectEvents(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	if err := client.SubscribeDrafts(func(evt hermes.DraftEvent) {
		if err := enc.Encode(evt); err != nil {
			slog.Warn("failed to write event", "error", err)
		}
	}); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
