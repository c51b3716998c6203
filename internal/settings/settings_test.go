package settings

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	getErr error
	setErr error
}

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.getErr
}

func (f *failingStore) Set(context.Context, string, []byte) error { return f.setErr }

func (f *failingStore) Remove(context.Context, string) error { return nil }

func TestStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("returns defaults when nothing is stored", func(t *testing.T) {
		s := NewStore(storage.NewMemoryStore())

		got := s.Load(ctx)

		assert.Equal(t, ProviderOpenAI, got.ModelProvider)
		assert.Equal(t, ModelGPT4oMini, got.Model)
		assert.Empty(t, got.OpenAIAPIKey)
		assert.Empty(t, got.AzureAPIKey)
		assert.Empty(t, got.AzureEndpoint)
		assert.Empty(t, got.AzureDeployment)
		assert.Empty(t, got.AzureAPIVersion)
	})

	t.Run("returns defaults when storage fails", func(t *testing.T) {
		s := NewStore(&failingStore{getErr: errors.New("disk unavailable")})

		assert.Equal(t, Defaults(), s.Load(ctx))
	})

	t.Run("returns defaults for a malformed record", func(t *testing.T) {
		mem := storage.NewMemoryStore()
		require.NoError(t, mem.Set(ctx, StorageKey, []byte("not-json")))

		assert.Equal(t, Defaults(), NewStore(mem).Load(ctx))
	})

	t.Run("merges a partial record over defaults", func(t *testing.T) {
		mem := storage.NewMemoryStore()
		require.NoError(t, mem.Set(ctx, StorageKey, []byte(`{"modelProvider":"openai","openaiApiKey":"sk-test"}`)))

		got := NewStore(mem).Load(ctx)

		assert.Equal(t, "sk-test", got.OpenAIAPIKey)
		assert.Equal(t, ModelGPT4oMini, got.Model)
	})

	t.Run("falls back to openai for an unknown provider", func(t *testing.T) {
		mem := storage.NewMemoryStore()
		require.NoError(t, mem.Set(ctx, StorageKey, []byte(`{"modelProvider":"bedrock","model":"gpt-4o"}`)))

		got := NewStore(mem).Load(ctx)

		assert.Equal(t, ProviderOpenAI, got.ModelProvider)
		assert.Equal(t, ModelGPT4o, got.Model)
	})
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		settings Settings
	}{
		{
			name: "openai",
			settings: Settings{
				ModelProvider: ProviderOpenAI,
				OpenAIAPIKey:  "sk-openai",
				Model:         ModelGPT4o,
			},
		},
		{
			name: "azure with inactive openai key retained",
			settings: Settings{
				ModelProvider:   ProviderAzure,
				OpenAIAPIKey:    "sk-kept",
				AzureAPIKey:     "azure-key",
				AzureEndpoint:   "https://example.openai.azure.com",
				AzureDeployment: "tickets",
				AzureAPIVersion: "2024-06-01",
				Model:           ModelGPT35Turbo,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(storage.NewMemoryStore())

			require.NoError(t, s.Save(ctx, tt.settings))

			assert.Equal(t, tt.settings, s.Load(ctx))
		})
	}
}

func TestStore_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("surfaces storage failures", func(t *testing.T) {
		s := NewStore(&failingStore{setErr: errors.New("read-only filesystem")})

		err := s.Save(ctx, Defaults())

		assert.ErrorIs(t, err, domainErrors.ErrStorageWrite)
	})

	t.Run("rejects an unknown provider", func(t *testing.T) {
		s := NewStore(storage.NewMemoryStore())

		err := s.Save(ctx, Settings{ModelProvider: "bedrock"})

		assert.ErrorIs(t, err, domainErrors.ErrUnknownProvider)
	})

	t.Run("clear resets to defaults", func(t *testing.T) {
		s := NewStore(storage.NewMemoryStore())
		require.NoError(t, s.Save(ctx, Settings{ModelProvider: ProviderAzure, AzureAPIKey: "k"}))

		cleared, err := s.Clear(ctx)

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cleared)
		assert.Equal(t, Defaults(), s.Load(ctx))
	})
}

func TestParseProvider(t *testing.T) {
	t.Run("accepts aliases", func(t *testing.T) {
		p, err := ParseProvider(" Azure-OpenAI ")

		require.NoError(t, err)
		assert.Equal(t, ProviderAzure, p)
	})

	t.Run("lists every supported provider on error", func(t *testing.T) {
		_, err := ParseProvider("bedrock")

		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.ErrorIs(t, err, domainErrors.ErrUnknownProvider)
		for _, p := range SupportedProviders() {
			assert.Contains(t, appErr.Suggestion, string(p))
		}
	})
}

func TestSettings_Validate(t *testing.T) {
	t.Run("openai requires a key", func(t *testing.T) {
		assert.ErrorIs(t, Defaults().Validate(), domainErrors.ErrAPIKeyMissing)

		s := Defaults()
		s.OpenAIAPIKey = "sk"
		assert.NoError(t, s.Validate())
	})

	t.Run("azure lists missing fields", func(t *testing.T) {
		s := Settings{ModelProvider: ProviderAzure, AzureAPIKey: "k"}

		err := s.Validate()

		var appErr *domainErrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "azure-endpoint, azure-deployment, azure-api-version", appErr.Context["missing"])
	})
}

func TestSettings_Set(t *testing.T) {
	s := Defaults()

	require.NoError(t, s.Set("provider", "Azure"))
	require.NoError(t, s.Set("azure-endpoint", " https://x.openai.azure.com "))
	require.NoError(t, s.Set("model", "gpt-4o"))

	assert.Equal(t, ProviderAzure, s.ModelProvider)
	assert.Equal(t, "https://x.openai.azure.com", s.AzureEndpoint)
	assert.Equal(t, ModelGPT4o, s.Model)
	assert.Error(t, s.Set("provider", "anthropic"))
	assert.Error(t, s.Set("color", "blue"))
}

func TestSettings_EffectiveModel(t *testing.T) {
	assert.Equal(t, DefaultModel, Settings{}.EffectiveModel())
	assert.Equal(t, ModelGPT4o, Settings{Model: ModelGPT4o}.EffectiveModel())
}

func TestKeys_AcceptedBySet(t *testing.T) {
	for _, key := range Keys() {
		t.Run(key, func(t *testing.T) {
			s := Defaults()
			value := "value"
			if key == "provider" {
				value = "azure"
			}
			assert.NoError(t, s.Set(key, value))
		})
	}
}

func TestSettings_Active(t *testing.T) {
	s := Settings{
		ModelProvider:   ProviderOpenAI,
		OpenAIAPIKey:    "sk-openai",
		AzureAPIKey:     "az-key",
		AzureEndpoint:   "https://x.openai.azure.com",
		AzureDeployment: "dep",
		AzureAPIVersion: "2024-02-01",
	}

	t.Run("openai", func(t *testing.T) {
		assert.Equal(t, ProviderCredentials{Provider: ProviderOpenAI, APIKey: "sk-openai"}, s.Active())
	})

	t.Run("azure keeps the openai key but does not expose it", func(t *testing.T) {
		azure := s
		azure.ModelProvider = ProviderAzure
		assert.Equal(t, ProviderCredentials{
			Provider:   ProviderAzure,
			APIKey:     "az-key",
			Endpoint:   "https://x.openai.azure.com",
			Deployment: "dep",
			APIVersion: "2024-02-01",
		}, azure.Active())
		assert.Equal(t, "sk-openai", azure.OpenAIAPIKey)
	})
}
