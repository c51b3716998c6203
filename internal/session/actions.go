package session

import (
	"context"
	"errors"

	"github.com/Tomas-vilte/MateTicket/internal/ai"
	"github.com/Tomas-vilte/MateTicket/internal/extractor"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
)

func setLoadFromSource(f *LoadingFlags, on bool) { f.LoadFromSource = on }
func setAnalyze(f *LoadingFlags, on bool)        { f.Analyze = on }
func setSubIssues(f *LoadingFlags, on bool)      { f.SubIssues = on }
func setApply(f *LoadingFlags, on bool)          { f.Apply = on }

// LoadFromSource clears the generated output and fills the issue fields from
// the active issue. Only non-empty fields are merged.
func (m *Manager) LoadFromSource(ctx context.Context) {
	ctx = actionContext(ctx, "loadFromSource")
	m.setError("")
	m.setFlag(setLoadFromSource, true)
	defer m.setFlag(setLoadFromSource, false)

	m.update(ctx, func(s *State) {
		s.GeneratedDescription = ""
		s.Analysis = nil
	})

	resp, err := m.send(ctx, extractor.ActionGetJiraInfo)
	if err == nil && resp.Error != "" {
		err = errors.New(resp.Error)
	}
	if err != nil {
		logger.Error(ctx, "error loading issue information", err)
		m.setError(m.message("error_load_source"))
		return
	}

	m.update(ctx, func(s *State) {
		if resp.IssueKey != "" {
			s.IssueKey = resp.IssueKey
		}
		if resp.IssueTitle != "" {
			s.IssueTitle = resp.IssueTitle
		}
		if resp.Description != "" {
			s.IssueContent = resp.Description
		}
	})
	logger.Info(ctx, "issue information loaded", "issue", resp.IssueKey)
}

// Analyze asks for a description and effort estimate. A structured response
// fills both analysis and generatedDescription; anything else is shown as
// raw text. A failed request writes a fixed message into generatedDescription
// and leaves analysis untouched.
func (m *Manager) Analyze(ctx context.Context) {
	ctx = actionContext(ctx, "analyze")
	m.setError("")
	m.setFlag(setAnalyze, true)
	defer m.setFlag(setAnalyze, false)

	current := m.View()
	raw, err := m.analyzer.AnalyzeIssue(ctx, current.IssueTitle, current.IssueContent)
	if err != nil {
		logger.Error(ctx, "error analyzing issue", err)
		failure := m.message("error_analyze_failed")
		m.update(ctx, func(s *State) { s.GeneratedDescription = failure })
		return
	}

	if analysis, ok := ai.DecodeAnalysis(raw); ok {
		m.update(ctx, func(s *State) {
			s.Analysis = &analysis
			s.GeneratedDescription = analysis.Description
		})
		logger.Info(ctx, "issue analyzed",
			"estimated_effort", analysis.EstimatedEffort,
			"breakdown_required", analysis.BreakdownRequired)
		return
	}

	logger.Warn(ctx, "analysis response is not structured, keeping raw text")
	m.update(ctx, func(s *State) {
		s.GeneratedDescription = raw
		s.Analysis = nil
	})
}

// CreateSubIssues asks for a breakdown into sub-tickets. Parse and request
// failures set different error banners and keep the previous list.
func (m *Manager) CreateSubIssues(ctx context.Context) {
	ctx = actionContext(ctx, "createSubIssues")
	m.setError("")
	m.setFlag(setSubIssues, true)
	defer m.setFlag(setSubIssues, false)

	current := m.View()
	raw, err := m.analyzer.CreateSubIssues(ctx, current.IssueTitle, current.IssueContent)
	if err != nil {
		logger.Error(ctx, "error creating sub-issues", err)
		m.setError(m.message("error_subissues_failed"))
		return
	}

	tickets, err := ai.DecodeSubTickets(raw)
	if err != nil {
		logger.Error(ctx, "error parsing sub-issue response", err)
		m.setError(m.message("error_subissues_parse"))
		return
	}

	m.update(ctx, func(s *State) { s.SubTickets = tickets })
	logger.Info(ctx, "sub-issues created", "count", len(tickets))
}

// CopyToClipboard writes text to the clipboard and reports whether it worked.
func (m *Manager) CopyToClipboard(ctx context.Context, text string) bool {
	ctx = actionContext(ctx, "copyToClipboard")
	m.setFlag(setApply, true)
	defer m.setFlag(setApply, false)

	m.clearBanners()
	return m.copy(ctx, text)
}

func (m *Manager) copy(ctx context.Context, text string) bool {
	if err := m.clipboard.WriteText(ctx, text); err != nil {
		logger.Error(ctx, "error copying content", err)
		m.setError(m.message("error_clipboard"))
		return false
	}
	return true
}

// CopySubTicket copies a sub-ticket title and marks every sub-ticket with
// that title as copied.
func (m *Manager) CopySubTicket(ctx context.Context, title string) bool {
	if !m.CopyToClipboard(ctx, title) {
		return false
	}
	m.MarkSubTicketCopied(ctx, title)
	return true
}

// CopyDescriptionAndOpenEditor copies the generated description and then
// opens the issue editor. A clipboard failure stops the sequence.
func (m *Manager) CopyDescriptionAndOpenEditor(ctx context.Context) {
	ctx = actionContext(ctx, "copyDescription")
	m.setFlag(setApply, true)
	defer m.setFlag(setApply, false)

	m.clearBanners()
	if !m.copy(ctx, m.View().GeneratedDescription) {
		return
	}

	resp, err := m.send(ctx, extractor.ActionCopyDescription)
	if err == nil && !resp.Success {
		err = errors.New(resp.Error)
	}
	if err != nil {
		logger.Error(ctx, "error opening description editor", err)
		m.setError(m.message("error_open_editor"))
		return
	}

	m.setSuccess(m.message("success_editor_opened"))
}

// MarkSubTicketCopied flags every sub-ticket whose title matches exactly.
func (m *Manager) MarkSubTicketCopied(ctx context.Context, title string) {
	m.update(ctx, func(s *State) {
		for i := range s.SubTickets {
			if s.SubTickets[i].Title == title {
				s.SubTickets[i].Copied = true
			}
		}
	})
}

// ClearAll resets the session and removes the stored record.
func (m *Manager) ClearAll(ctx context.Context) {
	ctx = actionContext(ctx, "clearAll")

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{}
	if err := m.local.Remove(ctx, StorageKey); err != nil {
		logger.Warn(ctx, "error removing stored session", "error", err)
	}
}

// SaveSettings stores new provider settings. On failure the previous settings
// stay in effect. On success the analysis client is invalidated so the next
// request uses them.
func (m *Manager) SaveSettings(ctx context.Context, s settings.Settings) error {
	ctx = actionContext(ctx, "saveSettings")

	if err := m.settingsStore.Save(ctx, s); err != nil {
		logger.Error(ctx, "error saving settings", err)
		m.mu.Lock()
		m.errMsg = m.message("error_save_settings")
		m.successMsg = ""
		m.mu.Unlock()
		return err
	}

	if provider, err := settings.ParseProvider(string(s.ModelProvider)); err == nil {
		s.ModelProvider = provider
	}
	m.mu.Lock()
	m.settings = s
	m.errMsg = ""
	m.mu.Unlock()

	m.analyzer.Invalidate()
	m.setSuccess(m.message("success_settings_saved"))
	return nil
}

// ClearSettings resets the provider settings to the defaults.
func (m *Manager) ClearSettings(ctx context.Context) error {
	ctx = actionContext(ctx, "clearSettings")

	defaults, err := m.settingsStore.Clear(ctx)
	if err != nil {
		logger.Error(ctx, "error clearing settings", err)
		m.setError(m.message("error_clear_settings"))
		return err
	}

	m.mu.Lock()
	m.settings = defaults
	m.errMsg = ""
	m.mu.Unlock()

	m.analyzer.Invalidate()
	return nil
}

func (m *Manager) send(ctx context.Context, action extractor.Action) (extractor.Response, error) {
	target, err := m.resolver.ActiveTarget(ctx)
	if err != nil {
		return extractor.Response{}, err
	}
	return target.SendMessage(ctx, extractor.Request{Action: action})
}
