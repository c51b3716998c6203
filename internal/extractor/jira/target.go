package jira

import (
	"context"
	"net/http"
	"sync"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/extractor"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
)

// Target answers extractor requests for a single issue.
type Target struct {
	service *Service
	key     string
}

func NewTarget(service *Service, key string) *Target {
	return &Target{service: service, key: key}
}

func (t *Target) Key() string {
	return t.key
}

func (t *Target) SendMessage(ctx context.Context, req extractor.Request) (extractor.Response, error) {
	switch req.Action {
	case extractor.ActionGetJiraInfo:
		info, err := t.service.GetIssueInfo(ctx, t.key)
		if err != nil {
			logger.Warn(ctx, "error getting Jira info", "issue", t.key, "error", err)
			return extractor.Response{Error: extractor.FailedToGetJiraInfo}, nil
		}
		return extractor.Response{
			IssueKey:    info.IssueKey,
			IssueTitle:  info.IssueTitle,
			Description: info.Description,
		}, nil

	case extractor.ActionCopyDescription:
		if err := t.service.OpenDescriptionEditor(ctx, t.key); err != nil {
			return extractor.Response{Success: false, Error: err.Error()}, nil
		}
		return extractor.Response{Success: true}, nil

	default:
		return extractor.Response{}, domainErrors.ErrUnknownAction.WithContext("action", string(req.Action))
	}
}

// KeySource returns the issue the user is working on: a key or an issue URL.
type KeySource func() string

type Option func(*Resolver)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.httpClient = c }
}

func WithURLOpener(open URLOpener) Option {
	return func(r *Resolver) { r.openURL = open }
}

// Resolver turns the current issue key into a Target. The Jira client is
// built on first use.
type Resolver struct {
	cfg        *config.Config
	keySource  KeySource
	httpClient *http.Client
	openURL    URLOpener

	mu      sync.Mutex
	service *Service
}

func NewResolver(cfg *config.Config, keySource KeySource, opts ...Option) *Resolver {
	r := &Resolver{cfg: cfg, keySource: keySource}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) ActiveTarget(ctx context.Context) (extractor.Target, error) {
	var raw string
	if r.keySource != nil {
		raw = r.keySource()
	}
	key := extractor.ParseIssueKey(raw)
	if key == "" {
		return nil, domainErrors.ErrNoActiveTarget
	}

	service, err := r.getService()
	if err != nil {
		return nil, err
	}

	logger.Debug(ctx, "active issue resolved", "issue", key)
	return NewTarget(service, key), nil
}

func (r *Resolver) getService() (*Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.service != nil {
		return r.service, nil
	}
	if err := config.ValidateJira(r.cfg); err != nil {
		return nil, err
	}
	service, err := NewService(r.cfg.Jira, r.httpClient, r.openURL)
	if err != nil {
		return nil, err
	}
	r.service = service
	return service, nil
}
