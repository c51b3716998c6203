package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/extractor"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/models"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
	"github.com/Tomas-vilte/MateTicket/internal/storage"
)

type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) AnalyzeIssue(ctx context.Context, title, content string) (string, error) {
	args := m.Called(ctx, title, content)
	return args.String(0), args.Error(1)
}

func (m *MockAnalyzer) CreateSubIssues(ctx context.Context, title, content string) (string, error) {
	args := m.Called(ctx, title, content)
	return args.String(0), args.Error(1)
}

func (m *MockAnalyzer) Invalidate() {
	m.Called()
}

type fakeTarget struct {
	mu        sync.Mutex
	responses map[extractor.Action]extractor.Response
	err       error
	calls     []extractor.Action
}

func (f *fakeTarget) SendMessage(_ context.Context, req extractor.Request) (extractor.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req.Action)
	if f.err != nil {
		return extractor.Response{}, f.err
	}
	return f.responses[req.Action], nil
}

type fakeResolver struct {
	target extractor.Target
	err    error
}

func (f *fakeResolver) ActiveTarget(context.Context) (extractor.Target, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.target, nil
}

type fakeClipboard struct {
	err   error
	texts []string
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

type failingStore struct {
	storage.Store
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, value)
}

type fixture struct {
	manager   *Manager
	local     *storage.MemoryStore
	synced    *storage.MemoryStore
	analyzer  *MockAnalyzer
	target    *fakeTarget
	resolver  *fakeResolver
	clipboard *fakeClipboard
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	f := &fixture{
		local:     storage.NewMemoryStore(),
		synced:    storage.NewMemoryStore(),
		analyzer:  new(MockAnalyzer),
		target:    &fakeTarget{responses: map[extractor.Action]extractor.Response{}},
		clipboard: &fakeClipboard{},
	}
	f.resolver = &fakeResolver{target: f.target}
	f.manager = NewManager(settings.NewStore(f.synced), f.local, f.analyzer, f.resolver, f.clipboard, trans, opts...)
	return f
}

func (f *fixture) stored(t *testing.T) (State, bool) {
	t.Helper()
	var s State
	found, err := storage.GetJSON(context.Background(), f.local, StorageKey, &s)
	require.NoError(t, err)
	return s, found
}

func TestManager_Activate(t *testing.T) {
	t.Run("restores session and settings", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		saved := settings.Defaults()
		saved.OpenAIAPIKey = "sk-test"
		require.NoError(t, settings.NewStore(f.synced).Save(ctx, saved))
		require.NoError(t, storage.SetJSON(ctx, f.local, StorageKey, State{
			IssueKey:   "PROJ-1",
			SubTickets: []models.SubTicket{{Title: "A", EstimatedEffort: 2}},
		}))

		require.NoError(t, f.manager.Activate(ctx))

		view := f.manager.View()
		assert.Equal(t, "PROJ-1", view.IssueKey)
		assert.Len(t, view.SubTickets, 1)
		assert.Equal(t, "sk-test", view.Settings.OpenAIAPIKey)
	})

	t.Run("missing records give an empty session and default settings", func(t *testing.T) {
		f := newFixture(t)

		require.NoError(t, f.manager.Activate(context.Background()))

		view := f.manager.View()
		assert.Equal(t, State{}, view.State)
		assert.Equal(t, settings.Defaults(), view.Settings)
	})

	t.Run("unreadable session starts empty", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.local.Set(context.Background(), StorageKey, []byte("{broken")))

		require.NoError(t, f.manager.Activate(context.Background()))

		assert.Equal(t, State{}, f.manager.View().State)
	})
}

func TestManager_Setters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.manager.SetIssueKey(ctx, "PROJ-7")
	f.manager.SetIssueTitle(ctx, "Fix login bug")
	f.manager.SetIssueContent(ctx, "Steps to reproduce")

	stored, found := f.stored(t)
	require.True(t, found)
	assert.Equal(t, State{IssueKey: "PROJ-7", IssueTitle: "Fix login bug", IssueContent: "Steps to reproduce"}, stored)
}

func TestManager_LoadFromSource(t *testing.T) {
	t.Run("merges only non-empty fields and clears output", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.manager.SetIssueTitle(ctx, "Old title")
		f.manager.SetIssueContent(ctx, "Old content")
		f.manager.update(ctx, func(s *State) {
			s.GeneratedDescription = "old output"
			s.Analysis = &models.Analysis{Description: "old output"}
		})
		f.target.responses[extractor.ActionGetJiraInfo] = extractor.Response{IssueKey: "PROJ-1", IssueTitle: "New title"}

		f.manager.LoadFromSource(ctx)

		view := f.manager.View()
		assert.Equal(t, "PROJ-1", view.IssueKey)
		assert.Equal(t, "New title", view.IssueTitle)
		assert.Equal(t, "Old content", view.IssueContent)
		assert.Empty(t, view.GeneratedDescription)
		assert.Nil(t, view.Analysis)
		assert.Empty(t, view.Error)
		assert.False(t, view.Loading.LoadFromSource)
	})

	t.Run("no active issue sets the extraction error", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.err = domainErrors.ErrNoActiveTarget

		f.manager.LoadFromSource(context.Background())

		view := f.manager.View()
		assert.Equal(t, "Failed to load Jira information. Make sure you are on a Jira issue page.", view.Error)
		assert.False(t, view.Loading.LoadFromSource)
	})

	t.Run("extractor error response sets the extraction error", func(t *testing.T) {
		f := newFixture(t)
		f.target.responses[extractor.ActionGetJiraInfo] = extractor.Response{Error: extractor.FailedToGetJiraInfo}

		f.manager.LoadFromSource(context.Background())

		assert.Equal(t, "Failed to load Jira information. Make sure you are on a Jira issue page.", f.manager.View().Error)
	})
}

func TestManager_Analyze(t *testing.T) {
	t.Run("structured response sets analysis and description", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.manager.SetIssueTitle(ctx, "Fix login bug")
		f.analyzer.On("AnalyzeIssue", mock.Anything, "Fix login bug", "").
			Return(`{"description":"Fix the login","estimated_effort":3,"breakdown_required":false}`, nil)

		f.manager.Analyze(ctx)

		view := f.manager.View()
		require.NotNil(t, view.Analysis)
		assert.Equal(t, 3, view.Analysis.EstimatedEffort)
		assert.False(t, view.Analysis.BreakdownRequired)
		assert.Equal(t, view.Analysis.Description, view.GeneratedDescription)
		assert.False(t, view.Loading.Analyze)

		stored, _ := f.stored(t)
		assert.Equal(t, "Fix the login", stored.GeneratedDescription)
		require.NotNil(t, stored.Analysis)
	})

	t.Run("plain text response is kept raw and analysis is unset", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.manager.update(ctx, func(s *State) { s.Analysis = &models.Analysis{Description: "previous"} })
		f.analyzer.On("AnalyzeIssue", mock.Anything, "", "").Return("Here is a description", nil)

		f.manager.Analyze(ctx)

		view := f.manager.View()
		assert.Equal(t, "Here is a description", view.GeneratedDescription)
		assert.Nil(t, view.Analysis)
	})

	t.Run("transport failure writes the fixed message and keeps analysis", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		previous := &models.Analysis{Description: "previous", EstimatedEffort: 5}
		f.manager.update(ctx, func(s *State) { s.Analysis = previous })
		f.analyzer.On("AnalyzeIssue", mock.Anything, mock.Anything, mock.Anything).
			Return("", domainErrors.ErrProvider.WithError(errors.New("connection refused")))

		f.manager.Analyze(ctx)

		view := f.manager.View()
		assert.Equal(t, "Failed to analyze ticket. Please check your API key and try again.", view.GeneratedDescription)
		assert.Equal(t, previous, view.Analysis)
		assert.Empty(t, view.Error)
		assert.False(t, view.Loading.Analyze)
	})
}

func TestManager_CreateSubIssues(t *testing.T) {
	t.Run("success replaces the list", func(t *testing.T) {
		f := newFixture(t)
		f.analyzer.On("CreateSubIssues", mock.Anything, mock.Anything, mock.Anything).
			Return(`{"sub_tickets":[{"title":"A","estimated_effort":2},{"title":"B","estimated_effort":3}]}`, nil)

		f.manager.CreateSubIssues(context.Background())

		view := f.manager.View()
		assert.Equal(t, []models.SubTicket{{Title: "A", EstimatedEffort: 2}, {Title: "B", EstimatedEffort: 3}}, view.SubTickets)
		assert.False(t, view.Loading.SubIssues)
	})

	t.Run("missing sub_tickets sets the parse error", func(t *testing.T) {
		f := newFixture(t)
		f.analyzer.On("CreateSubIssues", mock.Anything, mock.Anything, mock.Anything).Return(`{"tickets":[]}`, nil)

		f.manager.CreateSubIssues(context.Background())

		view := f.manager.View()
		assert.Nil(t, view.SubTickets)
		assert.Equal(t, "Failed to parse sub-issue response", view.Error)
	})

	t.Run("transport failure sets a different error", func(t *testing.T) {
		f := newFixture(t)
		f.analyzer.On("CreateSubIssues", mock.Anything, mock.Anything, mock.Anything).Return("", domainErrors.ErrProviderAuth)

		f.manager.CreateSubIssues(context.Background())

		view := f.manager.View()
		assert.Nil(t, view.SubTickets)
		assert.Equal(t, "Failed to create sub-issues. Please check your API key and try again.", view.Error)
		assert.False(t, view.Loading.SubIssues)
	})
}

func TestManager_CopyToClipboard(t *testing.T) {
	t.Run("copies text and clears the apply flag", func(t *testing.T) {
		f := newFixture(t)

		ok := f.manager.CopyToClipboard(context.Background(), "hello")

		assert.True(t, ok)
		assert.Equal(t, []string{"hello"}, f.clipboard.texts)
		assert.False(t, f.manager.View().Loading.Apply)
	})

	t.Run("failure sets the clipboard error", func(t *testing.T) {
		f := newFixture(t)
		f.clipboard.err = domainErrors.ErrClipboard

		ok := f.manager.CopyToClipboard(context.Background(), "hello")

		view := f.manager.View()
		assert.False(t, ok)
		assert.Equal(t, "Failed to copy content to clipboard", view.Error)
		assert.False(t, view.Loading.Apply)
	})
}

func TestManager_CopyDescriptionAndOpenEditor(t *testing.T) {
	t.Run("success after both steps", func(t *testing.T) {
		f := newFixture(t, WithSuccessDismiss(0))
		f.manager.update(context.Background(), func(s *State) { s.GeneratedDescription = "desc" })
		f.target.responses[extractor.ActionCopyDescription] = extractor.Response{Success: true}

		f.manager.CopyDescriptionAndOpenEditor(context.Background())

		view := f.manager.View()
		assert.Equal(t, []string{"desc"}, f.clipboard.texts)
		assert.Equal(t, "Description copied and editor opened!", view.Success)
		assert.Empty(t, view.Error)
		assert.False(t, view.Loading.Apply)
	})

	t.Run("editor failure", func(t *testing.T) {
		f := newFixture(t)
		f.target.responses[extractor.ActionCopyDescription] = extractor.Response{Success: false, Error: "no editor"}

		f.manager.CopyDescriptionAndOpenEditor(context.Background())

		view := f.manager.View()
		assert.Equal(t, "Failed to copy content. Make sure you are on a Jira issue page.", view.Error)
		assert.Empty(t, view.Success)
	})

	t.Run("clipboard error wins and the editor is never called", func(t *testing.T) {
		f := newFixture(t)
		f.clipboard.err = domainErrors.ErrClipboard
		f.resolver.err = domainErrors.ErrNoActiveTarget

		f.manager.CopyDescriptionAndOpenEditor(context.Background())

		view := f.manager.View()
		assert.Equal(t, "Failed to copy content to clipboard", view.Error)
		assert.Empty(t, f.target.calls)
		assert.False(t, view.Loading.Apply)
	})

	t.Run("success banner is dismissed after the delay", func(t *testing.T) {
		f := newFixture(t, WithSuccessDismiss(20*time.Millisecond))
		f.target.responses[extractor.ActionCopyDescription] = extractor.Response{Success: true}

		f.manager.CopyDescriptionAndOpenEditor(context.Background())
		require.NotEmpty(t, f.manager.View().Success)

		assert.Eventually(t, func() bool { return f.manager.View().Success == "" }, time.Second, 5*time.Millisecond)
	})
}

func TestManager_SubTickets(t *testing.T) {
	t.Run("marking copied updates every ticket with the same title", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.manager.update(ctx, func(s *State) {
			s.SubTickets = []models.SubTicket{
				{Title: "Implement login", EstimatedEffort: 3},
				{Title: "Write tests", EstimatedEffort: 2},
				{Title: "Implement login", EstimatedEffort: 5},
			}
		})

		f.manager.MarkSubTicketCopied(ctx, "Implement login")

		view := f.manager.View()
		assert.True(t, view.SubTickets[0].Copied)
		assert.False(t, view.SubTickets[1].Copied)
		assert.True(t, view.SubTickets[2].Copied)

		stored, _ := f.stored(t)
		assert.True(t, stored.SubTickets[2].Copied)
	})

	t.Run("copy sub-ticket copies the title and marks it", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.manager.update(ctx, func(s *State) { s.SubTickets = []models.SubTicket{{Title: "A"}} })

		ok := f.manager.CopySubTicket(ctx, "A")

		assert.True(t, ok)
		assert.Equal(t, []string{"A"}, f.clipboard.texts)
		assert.True(t, f.manager.View().SubTickets[0].Copied)
	})

	t.Run("failed copy does not mark", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.manager.update(ctx, func(s *State) { s.SubTickets = []models.SubTicket{{Title: "A"}} })
		f.clipboard.err = errors.New("no clipboard")

		assert.False(t, f.manager.CopySubTicket(ctx, "A"))
		assert.False(t, f.manager.View().SubTickets[0].Copied)
	})
}

func TestManager_ClearAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.manager.SetIssueKey(ctx, "PROJ-1")
	f.manager.update(ctx, func(s *State) {
		s.GeneratedDescription = "desc"
		s.Analysis = &models.Analysis{Description: "desc"}
		s.SubTickets = []models.SubTicket{{Title: "A"}}
	})

	f.manager.ClearAll(ctx)

	assert.Equal(t, State{}, f.manager.View().State)
	_, found := f.stored(t)
	assert.False(t, found)
}

func TestManager_Settings(t *testing.T) {
	t.Run("save stores settings and invalidates the client", func(t *testing.T) {
		f := newFixture(t, WithSuccessDismiss(0))
		ctx := context.Background()
		f.analyzer.On("Invalidate").Return().Once()
		s := settings.Defaults()
		s.ModelProvider = settings.ProviderAzure
		s.AzureAPIKey = "k"

		require.NoError(t, f.manager.SaveSettings(ctx, s))

		view := f.manager.View()
		assert.Equal(t, "Settings saved successfully!", view.Success)
		assert.Equal(t, s, view.Settings)
		assert.Equal(t, s, settings.NewStore(f.synced).Load(ctx))
		f.analyzer.AssertExpectations(t)
	})

	t.Run("save failure keeps previous settings", func(t *testing.T) {
		trans, err := i18n.NewTranslations("en", "")
		require.NoError(t, err)
		analyzer := new(MockAnalyzer)
		store := settings.NewStore(&failingStore{Store: storage.NewMemoryStore(), setErr: errors.New("disk full")})
		m := NewManager(store, storage.NewMemoryStore(), analyzer, &fakeResolver{}, &fakeClipboard{}, trans)
		s := settings.Defaults()
		s.OpenAIAPIKey = "sk-new"

		err = m.SaveSettings(context.Background(), s)

		require.Error(t, err)
		view := m.View()
		assert.Equal(t, "Failed to save settings", view.Error)
		assert.Empty(t, view.Success)
		assert.Equal(t, settings.Defaults(), view.Settings)
		analyzer.AssertNotCalled(t, "Invalidate")
	})

	t.Run("clear resets to defaults and invalidates the client", func(t *testing.T) {
		f := newFixture(t, WithSuccessDismiss(0))
		ctx := context.Background()
		f.analyzer.On("Invalidate").Return()
		s := settings.Defaults()
		s.OpenAIAPIKey = "sk"
		require.NoError(t, f.manager.SaveSettings(ctx, s))

		require.NoError(t, f.manager.ClearSettings(ctx))

		assert.Equal(t, settings.Defaults(), f.manager.View().Settings)
		f.analyzer.AssertNumberOfCalls(t, "Invalidate", 2)
	})

	t.Run("clear failure sets the error", func(t *testing.T) {
		trans, err := i18n.NewTranslations("en", "")
		require.NoError(t, err)
		store := settings.NewStore(&failingStore{Store: storage.NewMemoryStore(), setErr: errors.New("read-only")})
		m := NewManager(store, storage.NewMemoryStore(), new(MockAnalyzer), &fakeResolver{}, &fakeClipboard{}, trans)

		assert.Error(t, m.ClearSettings(context.Background()))
		assert.Equal(t, "Failed to clear settings", m.View().Error)
	})
}

func TestManager_SessionWriteFailureIsNotFatal(t *testing.T) {
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	local := &failingStore{Store: storage.NewMemoryStore(), setErr: errors.New("disk full")}
	m := NewManager(settings.NewStore(storage.NewMemoryStore()), local, new(MockAnalyzer), &fakeResolver{}, &fakeClipboard{}, trans)

	m.SetIssueKey(context.Background(), "PROJ-1")

	assert.Equal(t, "PROJ-1", m.View().IssueKey)
	assert.Empty(t, m.View().Error)
}

func TestManager_ConcurrentActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	release := make(chan struct{})
	f.analyzer.On("AnalyzeIssue", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(`{"description":"D"}`, nil)
	f.analyzer.On("CreateSubIssues", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"sub_tickets":[{"title":"A","estimated_effort":1}]}`, nil)

	done := make(chan struct{})
	go func() {
		f.manager.Analyze(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.manager.View().Loading.Analyze }, time.Second, time.Millisecond)
	f.manager.CreateSubIssues(ctx)
	assert.Len(t, f.manager.View().SubTickets, 1)
	assert.True(t, f.manager.View().Loading.Analyze)

	close(release)
	<-done

	view := f.manager.View()
	assert.Equal(t, "D", view.GeneratedDescription)
	assert.Len(t, view.SubTickets, 1)
	assert.False(t, view.Loading.Any())
}
