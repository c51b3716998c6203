package openai

import (
	"context"
	"errors"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/Tomas-vilte/MateTicket/internal/ai"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/models"
)

// ChatCompleter is the part of the go-openai client we use.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Provider talks to OpenAI or an Azure OpenAI deployment. Both speak the
// same chat completion API; only the client configuration differs.
type Provider struct {
	client       ChatCompleter
	providerName string
	model        string
}

var _ ai.Provider = (*Provider)(nil)

func NewProvider(client ChatCompleter, providerName, model string) *Provider {
	return &Provider{client: client, providerName: providerName, model: model}
}

func (p *Provider) GetModelName() string {
	return p.model
}

func (p *Provider) GetProviderName() string {
	return p.providerName
}

func (p *Provider) Complete(ctx context.Context, req ai.CompletionRequest) (string, *models.TokenUsage, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: req.UserMessage},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", nil, mapError(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil, domainErrors.ErrEmptyCompletion.WithContext("provider", p.providerName)
	}

	usage := &models.TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		Model:        resp.Model,
	}
	if usage.Model == "" {
		usage.Model = p.model
	}

	return resp.Choices[0].Message.Content, usage, nil
}

func mapError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return domainErrors.ErrProviderAuth.WithError(err).WithContext("status", status)
	}
	appErr := domainErrors.ErrProvider.WithError(err)
	if status != 0 {
		appErr = appErr.WithContext("status", status)
	}
	return appErr
}
