package ai

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Tomas-vilte/MateTicket/internal/models"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (string, *models.TokenUsage, error) {
	args := m.Called(ctx, req)
	usage, _ := args.Get(1).(*models.TokenUsage)
	return args.String(0), usage, args.Error(2)
}

func (m *MockProvider) GetModelName() string {
	return "gpt-4o-mini"
}

func (m *MockProvider) GetProviderName() string {
	return "openai"
}

type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) CreateProvider(ctx context.Context, s settings.Settings) (Provider, error) {
	args := m.Called(ctx, s)
	p, _ := args.Get(0).(Provider)
	return p, args.Error(1)
}

func (m *MockFactory) ValidateConfig(s settings.Settings) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockFactory) Name() string {
	return "openai"
}
