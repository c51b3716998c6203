package ai

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
)

// SettingsSource returns the current provider settings.
type SettingsSource func(ctx context.Context) settings.Settings

// Client is the analysis client. Its provider handle is built from a settings
// snapshot on first use and reused until Invalidate is called.
type Client struct {
	registry *ProviderRegistry
	settings SettingsSource

	mu     sync.Mutex
	handle Provider
}

func NewClient(registry *ProviderRegistry, source SettingsSource) *Client {
	return &Client{registry: registry, settings: source}
}

// Invalidate drops the cached handle so the next call reads settings again.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = nil
}

func (c *Client) provider(ctx context.Context) (Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil {
		return c.handle, nil
	}

	snapshot := c.settings(ctx)
	factory, err := c.registry.Get(string(snapshot.ModelProvider))
	if err != nil {
		return nil, domainErrors.ErrUnknownProvider.WithError(err).WithContext("provider", string(snapshot.ModelProvider))
	}
	if err := factory.ValidateConfig(snapshot); err != nil {
		return nil, err
	}

	handle, err := factory.CreateProvider(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "AI provider handle created",
		"provider", handle.GetProviderName(),
		"model", handle.GetModelName())

	c.handle = handle
	return handle, nil
}

func (c *Client) AnalyzeIssue(ctx context.Context, title, content string) (string, error) {
	return c.complete(ctx, "analyze", analysisSystemPromptTemplate, analyzeUserTemplate, title, content)
}

func (c *Client) CreateSubIssues(ctx context.Context, title, content string) (string, error) {
	return c.complete(ctx, "subtickets", subTicketsSystemPromptTemplate, subTicketsUserTemplate, title, content)
}

func (c *Client) complete(ctx context.Context, kind, systemTmpl, userTmpl, title, content string) (string, error) {
	system, user, err := buildPrompts(kind, systemTmpl, userTmpl, title, content)
	if err != nil {
		return "", domainErrors.NewAppError(domainErrors.TypeInternal, "failed to build prompt", err)
	}

	handle, err := c.provider(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, usage, err := handle.Complete(ctx, CompletionRequest{SystemPrompt: system, UserMessage: user})
	if err != nil {
		logger.Error(ctx, "AI request failed", err,
			"request", kind,
			"provider", handle.GetProviderName(),
			"model", handle.GetModelName())
		return "", err
	}

	if usage != nil {
		usage.DurationMs = time.Since(start).Milliseconds()
		logger.Debug(ctx, "AI request completed",
			"request", kind,
			"model", usage.Model,
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens,
			"duration_ms", usage.DurationMs)
	}

	return text, nil
}
