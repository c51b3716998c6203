package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	"github.com/pkg/browser"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/models"
)

// IssueGetter is the part of the go-jira issue service we use.
type IssueGetter interface {
	GetWithContext(ctx context.Context, issueID string, options *jira.GetQueryOptions) (*jira.Issue, *jira.Response, error)
}

// URLOpener opens a URL outside the process, usually in the system browser.
type URLOpener func(url string) error

// Service reads issues from Jira and opens them for editing.
type Service struct {
	baseURL string
	issues  IssueGetter
	openURL URLOpener
}

// NewService builds a go-jira client authenticated with the account email
// and API token. A nil httpClient uses the default transport and a nil
// opener uses the system browser.
func NewService(cfg config.JiraConfig, httpClient *http.Client, openURL URLOpener) (*Service, error) {
	tp := jira.BasicAuthTransport{
		Username: cfg.Email,
		Password: cfg.Token,
	}
	if httpClient != nil {
		tp.Transport = httpClient.Transport
	}

	client, err := jira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("error creating Jira client: %w", err)
	}

	return newService(cfg.URL, client.Issue, openURL), nil
}

func newService(baseURL string, issues IssueGetter, openURL URLOpener) *Service {
	if openURL == nil {
		openURL = browser.OpenURL
	}
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		issues:  issues,
		openURL: openURL,
	}
}

// GetIssueInfo returns the key, summary and description of an issue. Absent
// fields come back as empty strings.
func (s *Service) GetIssueInfo(ctx context.Context, key string) (models.IssueInfo, error) {
	issue, resp, err := s.issues.GetWithContext(ctx, key, &jira.GetQueryOptions{Fields: "summary,description"})
	if err != nil {
		appErr := domainErrors.ErrExtraction.WithError(err).WithContext("issue", key)
		if resp != nil && resp.Response != nil {
			appErr = appErr.WithContext("status", resp.StatusCode)
		}
		return models.IssueInfo{}, appErr
	}
	if issue == nil {
		return models.IssueInfo{}, domainErrors.ErrExtraction.WithContext("issue", key)
	}

	info := models.IssueInfo{IssueKey: issue.Key}
	if issue.Fields != nil {
		info.IssueTitle = strings.TrimSpace(issue.Fields.Summary)
		info.Description = strings.TrimSpace(issue.Fields.Description)
	}
	if info.IssueKey == "" {
		info.IssueKey = key
	}

	logger.Debug(ctx, "jira issue loaded",
		"issue", info.IssueKey,
		"title_length", len(info.IssueTitle),
		"description_length", len(info.Description))

	return info, nil
}

// OpenDescriptionEditor opens the issue page so its description can be
// pasted into the editor.
func (s *Service) OpenDescriptionEditor(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("no issue to open")
	}
	url := s.IssueURL(key)
	logger.Debug(ctx, "opening issue editor", "url", url)
	if err := s.openURL(url); err != nil {
		return fmt.Errorf("could not open %s: %w", url, err)
	}
	return nil
}

func (s *Service) IssueURL(key string) string {
	return s.baseURL + "/browse/" + key
}
