package ticket

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *TicketCommandFactory) NewAnalyzeCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   t.GetMessage("analyze_command_usage", 0, nil),
		Action: f.run(t, t.GetMessage("loading_analyze", 0, nil), func(ctx context.Context, s Session) {
			f.warnMissingTitle(s, t)
			s.Analyze(ctx)
		}),
	}
}

func (f *TicketCommandFactory) NewSubIssuesCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "subissues",
		Aliases: []string{"sub"},
		Usage:   t.GetMessage("subissues_command_usage", 0, nil),
		Action: f.run(t, t.GetMessage("loading_analyze", 0, nil), func(ctx context.Context, s Session) {
			f.warnMissingTitle(s, t)
			s.CreateSubIssues(ctx)
		}),
	}
}

// warnMissingTitle only warns; the request is still sent.
func (f *TicketCommandFactory) warnMissingTitle(s Session, t *i18n.Translations) {
	if strings.TrimSpace(s.View().IssueTitle) == "" {
		ui.PrintWarning(f.out, t.GetMessage("error_title_required", 0, nil))
	}
}
