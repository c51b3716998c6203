package config

import (
	"context"

	"github.com/Tomas-vilte/MateTicket/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

// newSetCommand changes one field of the stored settings and saves the whole
// record. Unknown models are accepted with a warning.
func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config_set_usage", 0, nil),
		ArgsUsage: t.GetMessage("config_set_args_usage", 0, nil),
		ShellComplete: completion_helper.ValuesComplete(func(context.Context, *cli.Command) []string {
			return settings.Keys()
		}),
		Action: func(ctx context.Context, command *cli.Command) error {
			args := command.Args()
			if args.Len() != 2 {
				ui.PrintError(c.out, t.GetMessage("config_set_error_args", 0, nil))
				return domainErrors.ErrActionFailed
			}
			key, value := args.Get(0), args.Get(1)

			s, err := c.open(ctx, t)
			if err != nil {
				return err
			}

			updated := s.View().Settings
			if err := updated.Set(key, value); err != nil {
				ui.HandleAppError(c.out, err, t)
				return err
			}

			if updated.Model != "" && !settings.IsSupportedModel(updated.Model) {
				ui.PrintWarning(c.out, t.GetMessage("config_unknown_model", 0, map[string]interface{}{
					"Model": updated.Model,
				}))
			}

			saveErr := s.SaveSettings(ctx, updated)
			ui.RenderSettingsView(c.out, s.View(), t)
			if saveErr != nil {
				return domainErrors.ErrActionFailed
			}
			return nil
		},
	}
}
