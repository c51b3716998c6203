package di

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Tomas-vilte/MateTicket/internal/ai"
	"github.com/Tomas-vilte/MateTicket/internal/clipboard"
	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/extractor/jira"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/session"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
	"github.com/Tomas-vilte/MateTicket/internal/storage"
)

// Container manages the application dependencies. The session and its
// storage are opened on first use so commands like help never touch disk.
type Container struct {
	config       *config.Config
	translations *i18n.Translations

	aiRegistry *ai.ProviderRegistry
	clipboard  clipboard.Writer
	jiraOpts   []jira.Option

	mu            sync.Mutex
	syncStore     storage.Store
	localStore    *storage.BoltStore
	settingsStore *settings.Store
	client        *ai.Client
	manager       *session.Manager
	issueOverride string
}

type Option func(*Container)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(w clipboard.Writer) Option {
	return func(c *Container) { c.clipboard = w }
}

// WithJiraOptions forwards options to the Jira resolver.
func WithJiraOptions(opts ...jira.Option) Option {
	return func(c *Container) { c.jiraOpts = append(c.jiraOpts, opts...) }
}

// NewContainer creates a new dependency container
func NewContainer(cfg *config.Config, trans *i18n.Translations, opts ...Option) *Container {
	c := &Container{
		config:       cfg,
		translations: trans,
		aiRegistry:   ai.NewProviderRegistry(),
		clipboard:    clipboard.NewSystemWriter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterAIProvider registers a language model provider factory
func (c *Container) RegisterAIProvider(name string, factory ai.ProviderFactory) error {
	return c.aiRegistry.Register(name, factory)
}

func (c *Container) GetAIRegistry() *ai.ProviderRegistry {
	return c.aiRegistry
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}

// GetSession returns the activated session manager (lazy initialization).
// issueOverride, when set, takes precedence over the session issue key for
// every Jira request of this process.
func (c *Container) GetSession(ctx context.Context, issueOverride string) (*session.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issueOverride = strings.TrimSpace(issueOverride)
	if c.manager != nil {
		return c.manager, nil
	}

	if err := c.openStores(); err != nil {
		return nil, err
	}

	c.client = ai.NewClient(c.aiRegistry, c.settingsStore.Load)

	var manager *session.Manager
	resolver := jira.NewResolver(c.config, func() string {
		if override := c.currentOverride(); override != "" {
			return override
		}
		return manager.View().IssueKey
	}, c.jiraOpts...)

	manager = session.NewManager(
		c.settingsStore,
		c.localStore,
		c.client,
		resolver,
		c.clipboard,
		c.translations,
	)
	if err := manager.Activate(ctx); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "session ready",
		"home", c.config.Home,
		"providers", strings.Join(c.aiRegistry.List(), ","))
	c.manager = manager
	return manager, nil
}

func (c *Container) currentOverride() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issueOverride
}

func (c *Container) openStores() error {
	if c.syncStore == nil {
		fs, err := storage.NewFileStore(c.config.SyncDir())
		if err != nil {
			return domainErrors.ErrStorageRead.WithError(err).WithContext("partition", string(storage.PartitionSync))
		}
		c.syncStore = fs
		c.settingsStore = settings.NewStore(fs)
	}

	if c.localStore == nil {
		bs, err := storage.OpenBoltStore(c.config.LocalDBPath(), storage.PartitionLocal)
		if err != nil {
			return domainErrors.ErrStorageRead.WithError(err).WithContext("partition", string(storage.PartitionLocal))
		}
		c.localStore = bs
	}
	return nil
}

// Close releases the local database.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.localStore == nil {
		return nil
	}
	if err := c.localStore.Close(); err != nil {
		return fmt.Errorf("error closing local store: %w", err)
	}
	c.localStore = nil
	c.manager = nil
	return nil
}
