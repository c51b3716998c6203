// Package extractor defines the message contract used to read issue data
// from, and act on, the issue the user is currently working on.
package extractor

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/MateTicket/internal/regex"
)

type Action string

const (
	ActionGetJiraInfo     Action = "getJiraInfo"
	ActionCopyDescription Action = "copyDescription"
)

// FailedToGetJiraInfo is the error text a target reports when it cannot read
// the issue.
const FailedToGetJiraInfo = "Failed to get Jira information"

type Request struct {
	Action Action `json:"action"`
}

// Response carries the result of a Request. Extraction results use the issue
// fields; copyDescription uses Success. Error is set on failure.
type Response struct {
	IssueKey    string `json:"issueKey,omitempty"`
	IssueTitle  string `json:"issueTitle,omitempty"`
	Description string `json:"description,omitempty"`
	Success     bool   `json:"success,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Target is one addressable issue.
type Target interface {
	SendMessage(ctx context.Context, req Request) (Response, error)
}

// Resolver finds the active target. It returns errors.ErrNoActiveTarget when
// there is none.
type Resolver interface {
	ActiveTarget(ctx context.Context) (Target, error)
}

// ParseIssueKey accepts a bare key ("proj-12") or an issue URL and returns the
// upper-cased key, or "" when none is found.
func ParseIssueKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := regex.JiraSelected.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := regex.JiraBrowse.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := regex.JiraIssueKey.FindStringSubmatch(s); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}
