package settings

import (
	"context"
	"encoding/json"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/storage"
)

// StorageKey is the record key of the settings in the synced partition.
const StorageKey = "settings"

// Store loads and saves Settings as a single record.
type Store struct {
	store storage.Store
}

func NewStore(s storage.Store) *Store {
	return &Store{store: s}
}

// Load returns the stored settings merged over the defaults. It never fails:
// unreadable or malformed records are logged and the defaults are returned.
func (s *Store) Load(ctx context.Context) Settings {
	data, found, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		logger.Warn(ctx, "error loading settings, using defaults", "error", err)
		return Defaults()
	}
	if !found {
		return Defaults()
	}

	loaded := Defaults()
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn(ctx, "malformed settings record, using defaults", "error", err)
		return Defaults()
	}

	provider, err := ParseProvider(string(loaded.ModelProvider))
	if err != nil {
		logger.Warn(ctx, "unknown provider in settings, falling back to openai",
			"provider", loaded.ModelProvider)
		provider = ProviderOpenAI
	}
	loaded.ModelProvider = provider

	return loaded
}

// Save replaces the stored record.
func (s *Store) Save(ctx context.Context, settings Settings) error {
	provider, err := ParseProvider(string(settings.ModelProvider))
	if err != nil {
		return err
	}
	settings.ModelProvider = provider

	if err := storage.SetJSON(ctx, s.store, StorageKey, settings); err != nil {
		logger.Error(ctx, "error saving settings", err)
		return domainErrors.ErrStorageWrite.WithError(err).WithContext("key", StorageKey)
	}

	logger.Debug(ctx, "settings saved", "provider", settings.ModelProvider, "model", settings.Model)
	return nil
}

// Clear resets the stored record to the defaults.
func (s *Store) Clear(ctx context.Context) (Settings, error) {
	defaults := Defaults()
	if err := s.Save(ctx, defaults); err != nil {
		return Settings{}, err
	}
	return defaults, nil
}
