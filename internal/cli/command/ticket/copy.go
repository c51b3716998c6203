package ticket

import (
	"context"
	"strings"

	"github.com/Tomas-vilte/MateTicket/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

func (f *TicketCommandFactory) NewCopyCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: t.GetMessage("copy_command_usage", 0, nil),
		Action: f.run(t, t.GetMessage("loading_apply", 0, nil), func(ctx context.Context, s Session) {
			s.CopyDescriptionAndOpenEditor(ctx)
		}),
	}
}

// NewCopySubTicketCommand copies a sub-ticket title. The title is the whole
// argument list joined by spaces so quoting is optional.
func (f *TicketCommandFactory) NewCopySubTicketCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "copy-subticket",
		Aliases:       []string{"cs"},
		Usage:         t.GetMessage("copy_subticket_command_usage", 0, nil),
		ArgsUsage:     "TITLE",
		ShellComplete: completion_helper.ValuesComplete(f.subTicketTitles),
		Action: func(ctx context.Context, command *cli.Command) error {
			title := strings.TrimSpace(strings.Join(command.Args().Slice(), " "))
			if title == "" {
				ui.PrintError(f.out, t.GetMessage("copy_subticket_missing_title", 0, nil))
				return domainErrors.ErrActionFailed
			}

			return f.run(t, "", func(ctx context.Context, s Session) {
				if s.CopySubTicket(ctx, title) {
					ui.PrintSuccess(f.out, t.GetMessage("success_copied", 0, nil))
				}
			})(ctx, command)
		},
	}
}

// subTicketTitles lists the titles not copied yet. Completion stays silent
// when the session cannot be opened.
func (f *TicketCommandFactory) subTicketTitles(ctx context.Context, command *cli.Command) []string {
	s, err := f.open(ctx, command)
	if err != nil {
		return nil
	}
	var titles []string
	for _, st := range s.View().SubTickets {
		if !st.Copied {
			titles = append(titles, st.Title)
		}
	}
	return titles
}
