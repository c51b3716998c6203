package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Tomas-vilte/MateTicket/internal/ai"
	"github.com/Tomas-vilte/MateTicket/internal/clipboard"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/extractor"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
	"github.com/Tomas-vilte/MateTicket/internal/storage"
)

// DefaultSuccessDismiss is how long a success banner stays visible.
const DefaultSuccessDismiss = 3 * time.Second

type SettingsStore interface {
	Load(ctx context.Context) settings.Settings
	Save(ctx context.Context, s settings.Settings) error
	Clear(ctx context.Context) (settings.Settings, error)
}

// AnalysisClient is the analysis client plus its handle invalidation hook.
type AnalysisClient interface {
	ai.IssueAnalyzer
	Invalidate()
}

type Translator interface {
	GetMessage(messageID string, count int, templateData interface{}) string
}

type Option func(*Manager)

// WithSuccessDismiss changes the success banner lifetime. Zero keeps success
// banners until the next action.
func WithSuccessDismiss(d time.Duration) Option {
	return func(m *Manager) { m.successTTL = d }
}

// Manager owns the working session. Actions may run concurrently; each
// mutation writes the whole session back and the last write wins.
type Manager struct {
	settingsStore SettingsStore
	local         storage.Store
	analyzer      AnalysisClient
	resolver      extractor.Resolver
	clipboard     clipboard.Writer
	trans         Translator
	successTTL    time.Duration

	mu         sync.Mutex
	state      State
	flags      LoadingFlags
	errMsg     string
	successMsg string
	successSeq uint64
	settings   settings.Settings
}

func NewManager(
	settingsStore SettingsStore,
	local storage.Store,
	analyzer AnalysisClient,
	resolver extractor.Resolver,
	clip clipboard.Writer,
	trans Translator,
	opts ...Option,
) *Manager {
	m := &Manager{
		settingsStore: settingsStore,
		local:         local,
		analyzer:      analyzer,
		resolver:      resolver,
		clipboard:     clip,
		trans:         trans,
		successTTL:    DefaultSuccessDismiss,
		settings:      settings.Defaults(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Activate loads the settings and the stored session independently and
// applies both once the two reads are done.
func (m *Manager) Activate(ctx context.Context) error {
	var (
		g        errgroup.Group
		loaded   settings.Settings
		restored State
	)

	g.Go(func() error {
		loaded = m.settingsStore.Load(ctx)
		return nil
	})
	g.Go(func() error {
		if _, err := storage.GetJSON(ctx, m.local, StorageKey, &restored); err != nil {
			logger.Warn(ctx, "error restoring session, starting empty", "error", err)
			restored = State{}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	m.settings = loaded
	m.state = restored
	m.mu.Unlock()

	logger.Debug(ctx, "session activated",
		"issue", restored.IssueKey,
		"provider", loaded.ModelProvider,
		"model", loaded.EffectiveModel())
	return nil
}

// View returns a copy of the current session, flags, banners and settings.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return View{
		State:    m.state.clone(),
		Loading:  m.flags,
		Error:    m.errMsg,
		Success:  m.successMsg,
		Settings: m.settings,
	}
}

func (m *Manager) SetIssueKey(ctx context.Context, key string) {
	m.update(ctx, func(s *State) { s.IssueKey = key })
}

func (m *Manager) SetIssueTitle(ctx context.Context, title string) {
	m.update(ctx, func(s *State) { s.IssueTitle = title })
}

func (m *Manager) SetIssueContent(ctx context.Context, content string) {
	m.update(ctx, func(s *State) { s.IssueContent = content })
}

// update applies fn and writes the full snapshot. Write failures are logged
// only; the in-memory session stays authoritative.
func (m *Manager) update(ctx context.Context, fn func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fn(&m.state)
	if err := storage.SetJSON(ctx, m.local, StorageKey, m.state); err != nil {
		logger.Warn(ctx, "error persisting session",
			"error", domainErrors.ErrStorageWrite.WithError(err).WithContext("key", StorageKey))
	}
}

func (m *Manager) setFlag(set func(*LoadingFlags, bool), on bool) {
	m.mu.Lock()
	set(&m.flags, on)
	m.mu.Unlock()
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	m.errMsg = msg
	m.mu.Unlock()
}

func (m *Manager) clearBanners() {
	m.mu.Lock()
	m.errMsg = ""
	m.successMsg = ""
	m.mu.Unlock()
}

func (m *Manager) setSuccess(msg string) {
	m.mu.Lock()
	m.successMsg = msg
	m.successSeq++
	seq := m.successSeq
	m.mu.Unlock()

	if m.successTTL <= 0 {
		return
	}
	time.AfterFunc(m.successTTL, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.successSeq == seq {
			m.successMsg = ""
		}
	})
}

func (m *Manager) message(id string) string {
	return m.trans.GetMessage(id, 0, nil)
}

// actionContext tags every log line of one action with its name and a fresh id.
func actionContext(ctx context.Context, action string) context.Context {
	return logger.With(ctx, "action", action, "action_id", uuid.NewString())
}
