package config

import (
	"context"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			s, err := c.open(ctx, t)
			if err != nil {
				return err
			}
			ui.RenderSettingsView(c.out, s.View(), t)
			return nil
		},
	}
}
