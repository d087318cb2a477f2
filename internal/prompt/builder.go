package prompt

import (
	"fmt"
	"strings"

	"github.com/claraliu715-tech/chat-with-echo/internal/draft"
	"github.com/claraliu715-tech/chat-with-echo/internal/intent"
	"github.com/claraliu715-tech/chat-with-echo/internal/style"
)

// Instructions is the pair sent to the generation backend.
type Instructions struct {
	System string
	User   string
}

// System fixes the backend's role and embeds the resolved labels.
func System(labels style.Labels) string {
	return fmt.Sprintf(systemPrompt, labels.Tone, labels.Scenario)
}

// Build composes the instructions for one request. cls is only consulted in
// chat mode; rewrite modes wrap the message with a fixed directive.
func Build(req draft.Request, labels style.Labels, cls intent.Classification) Instructions {
	message := strings.TrimSpace(req.Message)
	return Instructions{
		System: System(labels),
		User:   user(req.Mode, message, labels, cls),
	}
}

func user(mode draft.Mode, message string, labels style.Labels, cls intent.Classification) string {
	switch mode {
	case draft.ModeChat:
		if cls.Intention {
			n := intent.Normalize(message, labels)
			return fmt.Sprintf(intentionTask, n.Instruction, message)
		}
		return fmt.Sprintf(replyTask, message)
	case draft.ModeRewriteShorter:
		return fmt.Sprintf(rewriteTask, rewriteShorter, message)
	case draft.ModeRewritePoliter:
		return fmt.Sprintf(rewriteTask, rewritePoliter, message)
	case draft.ModeRewriteConfident:
		return fmt.Sprintf(rewriteTask, rewriteConfident, message)
	default:
		return fmt.Sprintf(rewriteTask, rewriteGeneric, message)
	}
}
