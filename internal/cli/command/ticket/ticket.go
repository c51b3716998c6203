package ticket

import (
	"context"
	"io"
	"os"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/session"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

// Session is the part of the session manager the ticket commands drive.
type Session interface {
	View() session.View
	SetIssueKey(ctx context.Context, key string)
	SetIssueTitle(ctx context.Context, title string)
	SetIssueContent(ctx context.Context, content string)
	LoadFromSource(ctx context.Context)
	Analyze(ctx context.Context)
	CreateSubIssues(ctx context.Context)
	CopySubTicket(ctx context.Context, title string) bool
	CopyDescriptionAndOpenEditor(ctx context.Context)
	ClearAll(ctx context.Context)
}

// SessionProvider opens the session. issueOverride is the value of the
// global --issue flag.
type SessionProvider func(ctx context.Context, issueOverride string) (Session, error)

// TicketCommandFactory builds the commands of the main view.
type TicketCommandFactory struct {
	sessionProvider SessionProvider
	out             io.Writer
	in              io.Reader
	spin            func(message string, fn func())
}

type Option func(*TicketCommandFactory)

// WithIO replaces stdout and stdin.
func WithIO(out io.Writer, in io.Reader) Option {
	return func(f *TicketCommandFactory) {
		f.out = out
		f.in = in
	}
}

// WithoutSpinner runs actions without a progress spinner.
func WithoutSpinner() Option {
	return func(f *TicketCommandFactory) {
		f.spin = func(_ string, fn func()) { fn() }
	}
}

func NewTicketCommandFactory(provider SessionProvider, opts ...Option) *TicketCommandFactory {
	f := &TicketCommandFactory{
		sessionProvider: provider,
		out:             os.Stdout,
		in:              os.Stdin,
		spin:            ui.WithSpinner,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *TicketCommandFactory) open(ctx context.Context, command *cli.Command) (Session, error) {
	return f.sessionProvider(ctx, command.String("issue"))
}

// run opens the session, executes action under a spinner and renders the main
// view. An error banner left by the action turns into ErrActionFailed.
func (f *TicketCommandFactory) run(t *i18n.Translations, spinnerMsg string, action func(ctx context.Context, s Session)) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		s, err := f.open(ctx, command)
		if err != nil {
			ui.HandleAppError(f.out, err, t)
			return err
		}

		if spinnerMsg != "" {
			f.spin(spinnerMsg, func() { action(ctx, s) })
		} else {
			action(ctx, s)
		}

		view := s.View()
		ui.RenderMainView(f.out, view, t)
		if view.Error != "" {
			return domainErrors.ErrActionFailed
		}
		return nil
	}
}

func (f *TicketCommandFactory) NewShowCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  t.GetMessage("show_command_usage", 0, nil),
		Action: f.run(t, "", func(context.Context, Session) {}),
	}
}

func (f *TicketCommandFactory) NewClearCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: t.GetMessage("clear_command_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			s, err := f.open(ctx, command)
			if err != nil {
				ui.HandleAppError(f.out, err, t)
				return err
			}
			s.ClearAll(ctx)
			ui.PrintSuccess(f.out, t.GetMessage("success_session_cleared", 0, nil))
			return nil
		},
	}
}
