package ticket

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/urfave/cli/v3"
)

// NewLoadCommand fills the session from Jira. An optional KEY argument becomes
// the session issue key before loading.
func (f *TicketCommandFactory) NewLoadCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Aliases:   []string{"l"},
		Usage:     t.GetMessage("load_command_usage", 0, nil),
		ArgsUsage: "[KEY]",
		Action: func(ctx context.Context, command *cli.Command) error {
			key := strings.TrimSpace(command.Args().First())
			return f.run(t, t.GetMessage("loading_source", 0, nil), func(ctx context.Context, s Session) {
				if key != "" {
					s.SetIssueKey(ctx, key)
				}
				s.LoadFromSource(ctx)
			})(ctx, command)
		},
	}
}
