package review

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/logger"
	"go.uber.org/zap"
)

// APIReviewer calls the Anthropic Messages API
type APIReviewer struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAPIReviewer creates an API reviewer. Returns nil without ANTHROPIC_API_KEY.
func NewAPIReviewer(model string) *APIReviewer {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil
	}

	m := anthropic.ModelClaude3_5Haiku20241022
	if model != "" {
		m = anthropic.Model(model)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &APIReviewer{client: client, model: m}
}

func (r *APIReviewer) Name() string {
	return BackendAPI
}

// Review sends the statement and its report to the model
func (r *APIReviewer) Review(ctx context.Context, text string, report *feedback.Report) (*Opinion, error) {
	if r == nil {
		return nil, fmt.Errorf("API reviewer not initialized (missing ANTHROPIC_API_KEY)")
	}

	logger.Named("review").Debug("requesting review", zap.String("backend", BackendAPI), zap.String("model", string(r.model)))

	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: 2000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(text, report))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Claude API error: %w", err)
	}

	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("empty response from Claude API")
	}

	return parseOpinion(responseText)
}
