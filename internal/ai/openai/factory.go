package openai

import (
	"context"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/Tomas-vilte/MateTicket/internal/ai"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
)

// OpenAIFactory builds providers for api.openai.com. BaseURL overrides the
// API root when set.
type OpenAIFactory struct {
	BaseURL    string
	HTTPClient goopenai.HTTPDoer
}

func NewOpenAIFactory() *OpenAIFactory {
	return &OpenAIFactory{}
}

func (f *OpenAIFactory) CreateProvider(_ context.Context, s settings.Settings) (ai.Provider, error) {
	if err := f.ValidateConfig(s); err != nil {
		return nil, err
	}

	s.ModelProvider = settings.ProviderOpenAI
	cfg := goopenai.DefaultConfig(s.Active().APIKey)
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.HTTPClient != nil {
		cfg.HTTPClient = f.HTTPClient
	}

	return NewProvider(goopenai.NewClientWithConfig(cfg), f.Name(), string(s.EffectiveModel())), nil
}

func (f *OpenAIFactory) ValidateConfig(s settings.Settings) error {
	s.ModelProvider = settings.ProviderOpenAI
	return s.Validate()
}

func (f *OpenAIFactory) Name() string {
	return string(settings.ProviderOpenAI)
}

// AzureFactory builds providers for an Azure OpenAI deployment. Requests go
// to <endpoint>/openai/deployments/<deployment>/... with the api-key header.
type AzureFactory struct {
	HTTPClient goopenai.HTTPDoer
}

func NewAzureFactory() *AzureFactory {
	return &AzureFactory{}
}

func (f *AzureFactory) CreateProvider(_ context.Context, s settings.Settings) (ai.Provider, error) {
	if err := f.ValidateConfig(s); err != nil {
		return nil, err
	}

	s.ModelProvider = settings.ProviderAzure
	creds := s.Active()
	cfg := goopenai.DefaultAzureConfig(creds.APIKey, strings.TrimRight(creds.Endpoint, "/"))
	cfg.APIVersion = creds.APIVersion
	deployment := creds.Deployment
	cfg.AzureModelMapperFunc = func(string) string {
		return deployment
	}
	if f.HTTPClient != nil {
		cfg.HTTPClient = f.HTTPClient
	}

	return NewProvider(goopenai.NewClientWithConfig(cfg), f.Name(), string(s.EffectiveModel())), nil
}

func (f *AzureFactory) ValidateConfig(s settings.Settings) error {
	s.ModelProvider = settings.ProviderAzure
	return s.Validate()
}

func (f *AzureFactory) Name() string {
	return string(settings.ProviderAzure)
}

// Register adds both factories to the registry.
func Register(registry *ai.ProviderRegistry) error {
	if err := registry.Register(string(settings.ProviderOpenAI), NewOpenAIFactory()); err != nil {
		return err
	}
	return registry.Register(string(settings.ProviderAzure), NewAzureFactory())
}
