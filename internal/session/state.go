package session

import (
	"github.com/Tomas-vilte/MateTicket/internal/models"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
)

// StorageKey is the record key of the session in the local partition.
const StorageKey = "popupState"

// State is the persisted working session.
type State struct {
	IssueKey             string             `json:"issueKey"`
	IssueTitle           string             `json:"issueTitle"`
	IssueContent         string             `json:"issueContent"`
	GeneratedDescription string             `json:"generatedDescription"`
	Analysis             *models.Analysis   `json:"analysis"`
	SubTickets           []models.SubTicket `json:"subTickets"`
}

func (s State) clone() State {
	out := s
	if s.Analysis != nil {
		a := *s.Analysis
		out.Analysis = &a
	}
	if s.SubTickets != nil {
		out.SubTickets = append([]models.SubTicket{}, s.SubTickets...)
	}
	return out
}

// LoadingFlags are never persisted. Each one is owned by a single action.
type LoadingFlags struct {
	LoadFromSource bool
	Analyze        bool
	SubIssues      bool
	Apply          bool
}

// Any reports whether an action is still running.
func (f LoadingFlags) Any() bool {
	return f.LoadFromSource || f.Analyze || f.SubIssues || f.Apply
}

// View is a copy of everything the presentation layer renders.
type View struct {
	State
	Loading  LoadingFlags
	Error    string
	Success  string
	Settings settings.Settings
}
