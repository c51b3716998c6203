package ticket

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Tomas-vilte/MateTicket/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateTicket/internal/config"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

const stdinMarker = "-"

func (f *TicketCommandFactory) NewSetCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:          "set",
		Usage:         t.GetMessage("set_command_usage", 0, nil),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   t.GetMessage("set_flag_key_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("set_flag_title_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:    "content",
				Aliases: []string{"c"},
				Usage:   t.GetMessage("set_flag_content_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			if !command.IsSet("key") && !command.IsSet("title") && !command.IsSet("content") {
				ui.PrintWarning(f.out, t.GetMessage("set_nothing_to_update", 0, nil))
				return nil
			}

			content := command.String("content")
			if command.IsSet("content") && content == stdinMarker {
				data, err := io.ReadAll(f.in)
				if err != nil {
					return fmt.Errorf("error reading content from stdin: %w", err)
				}
				content = strings.TrimRight(string(data), "\n")
			}

			return f.run(t, "", func(ctx context.Context, s Session) {
				if command.IsSet("key") {
					s.SetIssueKey(ctx, strings.TrimSpace(command.String("key")))
				}
				if command.IsSet("title") {
					s.SetIssueTitle(ctx, command.String("title"))
				}
				if command.IsSet("content") {
					s.SetIssueContent(ctx, content)
				}
			})(ctx, command)
		},
	}
}
