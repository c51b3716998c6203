package config

import (
	"context"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newClearCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: t.GetMessage("config_clear_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			s, err := c.open(ctx, t)
			if err != nil {
				return err
			}

			if err := s.ClearSettings(ctx); err != nil {
				ui.RenderBanners(c.out, s.View())
				return domainErrors.ErrActionFailed
			}

			ui.PrintSuccess(c.out, t.GetMessage("success_settings_cleared", 0, nil))
			ui.RenderSettingsView(c.out, s.View(), t)
			return nil
		},
	}
}
