// Package settings holds the user's language-model provider configuration and
// persists it to the synced storage partition.
package settings

import (
	"fmt"
	"strings"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
)

// Provider identifies the remote language-model backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderAzure  Provider = "azure"
)

// Model is a language model identifier.
type Model string

const (
	ModelGPT4o      Model = "gpt-4o"
	ModelGPT4oMini  Model = "gpt-4o-mini"
	ModelGPT35Turbo Model = "gpt-3.5-turbo"
	ModelGPT4Turbo  Model = "gpt-4-turbo-preview"

	DefaultModel = ModelGPT4oMini
)

func SupportedProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAzure}
}

func SupportedModels() []Model {
	return []Model{ModelGPT4o, ModelGPT4oMini, ModelGPT35Turbo, ModelGPT4Turbo}
}

// ParseProvider maps user input to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai":
		return ProviderOpenAI, nil
	case "azure", "azure-openai", "azure-compatible":
		return ProviderAzure, nil
	default:
		names := make([]string, 0, len(SupportedProviders()))
		for _, p := range SupportedProviders() {
			names = append(names, string(p))
		}
		return "", domainErrors.ErrUnknownProvider.
			WithContext("provider", s).
			WithSuggestion("Valid providers are: " + strings.Join(names, ", "))
	}
}

func IsSupportedModel(m Model) bool {
	for _, s := range SupportedModels() {
		if s == m {
			return true
		}
	}
	return false
}

// Settings is the persisted provider configuration. Fields of the inactive
// provider are kept but unused.
type Settings struct {
	ModelProvider   Provider `json:"modelProvider"`
	OpenAIAPIKey    string   `json:"openaiApiKey"`
	AzureAPIKey     string   `json:"azureApiKey"`
	AzureEndpoint   string   `json:"azureEndpoint"`
	AzureDeployment string   `json:"azureDeployment"`
	AzureAPIVersion string   `json:"azureApiVersion"`
	Model           Model    `json:"model"`
}

// Defaults returns the settings used when nothing has been saved yet.
func Defaults() Settings {
	return Settings{
		ModelProvider: ProviderOpenAI,
		Model:         DefaultModel,
	}
}

// EffectiveModel returns the configured model or the default when empty.
func (s Settings) EffectiveModel() Model {
	if strings.TrimSpace(string(s.Model)) == "" {
		return DefaultModel
	}
	return s.Model
}

// ProviderCredentials are the connection fields of one provider. Endpoint,
// Deployment and APIVersion are only used by Azure.
type ProviderCredentials struct {
	Provider   Provider
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
}

// Active returns the credentials of the active provider.
func (s Settings) Active() ProviderCredentials {
	if s.ModelProvider == ProviderAzure {
		return ProviderCredentials{
			Provider:   ProviderAzure,
			APIKey:     s.AzureAPIKey,
			Endpoint:   s.AzureEndpoint,
			Deployment: s.AzureDeployment,
			APIVersion: s.AzureAPIVersion,
		}
	}
	return ProviderCredentials{Provider: s.ModelProvider, APIKey: s.OpenAIAPIKey}
}

// Validate reports whether the active provider has the credentials it needs.
func (s Settings) Validate() error {
	creds := s.Active()
	switch creds.Provider {
	case ProviderOpenAI:
		if creds.APIKey == "" {
			return domainErrors.ErrAPIKeyMissing
		}
	case ProviderAzure:
		var missing []string
		if creds.APIKey == "" {
			missing = append(missing, "azure-key")
		}
		if creds.Endpoint == "" {
			missing = append(missing, "azure-endpoint")
		}
		if creds.Deployment == "" {
			missing = append(missing, "azure-deployment")
		}
		if creds.APIVersion == "" {
			missing = append(missing, "azure-api-version")
		}
		if len(missing) > 0 {
			return domainErrors.ErrAzureConfigIncomplete.WithContext("missing", strings.Join(missing, ", "))
		}
	default:
		return domainErrors.ErrUnknownProvider.WithContext("provider", string(s.ModelProvider))
	}
	return nil
}

// Keys lists the CLI keys accepted by Set.
func Keys() []string {
	return []string{"provider", "model", "openai-key", "azure-key", "azure-endpoint", "azure-deployment", "azure-api-version"}
}

// Set updates one field addressed by its CLI key.
func (s *Settings) Set(key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "provider", "model-provider":
		p, err := ParseProvider(value)
		if err != nil {
			return err
		}
		s.ModelProvider = p
	case "model":
		s.Model = Model(strings.TrimSpace(value))
	case "openai-key", "openai-api-key":
		s.OpenAIAPIKey = strings.TrimSpace(value)
	case "azure-key", "azure-api-key":
		s.AzureAPIKey = strings.TrimSpace(value)
	case "azure-endpoint":
		s.AzureEndpoint = strings.TrimSpace(value)
	case "azure-deployment":
		s.AzureDeployment = strings.TrimSpace(value)
	case "azure-api-version":
		s.AzureAPIVersion = strings.TrimSpace(value)
	default:
		return fmt.Errorf("unknown settings key: %s", key)
	}
	return nil
}
