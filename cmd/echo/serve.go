package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/claraliu715-tech/chat-with-echo/internal/api"
	"github.com/claraliu715-tech/chat-with-echo/internal/processor"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP drafting service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	setupLogging(cfg.LogLevel, os.Stdout)

	slog.Info("echo starting",
		"port", cfg.Port,
		"provider", cfg.Provider,
		"mock", cfg.UseMock,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var events processor.Publisher
	hermesClient, err := connectEvents(ctx, cfg)
	if err != nil {
		slog.Warn("NATS unavailable, draft events disabled", "error", err)
	} else if hermesClient != nil {
		defer hermesClient.Close()
		events = hermesClient
	}

	proc, err := newProcessor(cfg, events, false)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	srv := api.NewServer(api.Options{
		Port:           cfg.Port,
		FrontendDir:    cfg.FrontendDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, proc, slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("echo ready", "port", cfg.Port)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	<-errCh
	slog.Info("echo stopped")
	return nil
}
