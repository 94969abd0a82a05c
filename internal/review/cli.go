package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/logger"
	claudecode "github.com/severity1/claude-agent-sdk-go"
	"go.uber.org/zap"
)

// CLIReviewer runs the review through a local Claude Code CLI
type CLIReviewer struct {
	model string
}

// NewCLIReviewer creates a CLI reviewer, checking that the CLI is installed.
// Returns nil if the CLI is not found.
func NewCLIReviewer(model string) *CLIReviewer {
	if model == "" {
		model = "sonnet"
	}

	ctx := context.Background()
	iterator, err := claudecode.Query(ctx, "echo test",
		claudecode.WithModel(model),
		claudecode.WithMaxTurns(1),
	)
	if err != nil {
		if claudecode.IsCLINotFoundError(err) {
			return nil
		}
		// Other errors might be temporary, allow creation
		logger.Named("review").Warn("claude code probe failed", zap.Error(err))
	} else {
		iterator.Close()
	}
	return &CLIReviewer{model: model}
}

func (r *CLIReviewer) Name() string {
	return BackendCLI
}

// Review runs a tool-less query and parses the JSON reply
func (r *CLIReviewer) Review(ctx context.Context, text string, report *feedback.Report) (*Opinion, error) {
	if r == nil {
		return nil, fmt.Errorf("CLI reviewer not initialized (Claude Code CLI not available)")
	}

	logger.Named("review").Debug("requesting review", zap.String("backend", BackendCLI), zap.String("model", r.model))

	iterator, err := claudecode.Query(ctx, buildPrompt(text, report),
		claudecode.WithModel(r.model),
		claudecode.WithMaxTurns(3),
	)
	if err != nil {
		return nil, fmt.Errorf("claude code error: %w", err)
	}
	defer iterator.Close()

	var responseBuilder strings.Builder
	for {
		message, err := iterator.Next(ctx)
		if err != nil {
			if errors.Is(err, claudecode.ErrNoMoreMessages) {
				break
			}
			return nil, fmt.Errorf("error reading claude response: %w", err)
		}

		if assistantMsg, ok := message.(*claudecode.AssistantMessage); ok {
			for _, block := range assistantMsg.Content {
				if textBlock, ok := block.(*claudecode.TextBlock); ok {
					responseBuilder.WriteString(textBlock.Text)
				}
			}
		}
	}

	responseText := responseBuilder.String()
	if responseText == "" {
		return nil, fmt.Errorf("empty response from claude code")
	}

	return parseOpinion(responseText)
}
