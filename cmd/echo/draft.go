package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
)

var (
	draftTone     string
	draftScenario string
	draftMode     string
	draftOffline  bool
)

var draftCmd = &cobra.Command{
	Use:   "draft [message...]",
	Short: "Draft one message and print the result as JSON",
	Long: `Runs the drafting pipeline once. The message is either something you
want to say ("follow up", "ask about the deadline") or text you received.
With --offline no backend is called and the local templates are used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVarP(&draftTone, "tone", "t", draft.DefaultTone, "tone, e.g. Calm, Friendly, Polite, Direct")
	draftCmd.Flags().StringVarP(&draftScenario, "scenario", "s", draft.DefaultScenario, "who the message is for, e.g. professor, friend")
	draftCmd.Flags().StringVarP(&draftMode, "mode", "m", string(draft.ModeChat), "chat, rewrite_shorter, rewrite_politer or rewrite_confident")
	draftCmd.Flags().BoolVar(&draftOffline, "offline", false, "use local templates only")
}

func runDraft(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Keep stdout for the result.
	setupLogging(cfg.LogLevel, os.Stderr)

	proc, err := newProcessor(cfg, nil, draftOffline)
	if err != nil {
		return err
	}

	out := proc.Draft(context.Background(), draft.Request{
		Message:  strings.Join(args, " "),
		Tone:     draftTone,
		Scenario: draftScenario,
		Mode:     draft.ParseMode(draftMode),
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out.Result)
}
