package ai

import (
	"context"

	"github.com/Tomas-vilte/MateTicket/internal/models"
)

// CompletionRequest is one chat completion: a system instruction and a single
// user message. The response is always requested as a JSON object.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
}

// Provider sends completion requests to one language-model backend.
type Provider interface {
	// Complete performs a single round trip and returns the raw text of the
	// first choice.
	Complete(ctx context.Context, req CompletionRequest) (string, *models.TokenUsage, error)

	// GetModelName returns the model (or deployment) requests are sent to.
	GetModelName() string

	// GetProviderName returns the name of the provider (e.g.: "openai", "azure")
	GetProviderName() string
}

// IssueAnalyzer produces the raw model output for both request kinds. The
// caller decodes it with DecodeAnalysis or DecodeSubTickets.
type IssueAnalyzer interface {
	AnalyzeIssue(ctx context.Context, title, content string) (string, error)
	CreateSubIssues(ctx context.Context, title, content string) (string, error)
}
