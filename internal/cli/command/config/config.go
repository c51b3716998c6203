package config

import (
	"context"
	"io"
	"os"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/session"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

// SettingsSession is the part of the session manager the settings view uses.
type SettingsSession interface {
	View() session.View
	SaveSettings(ctx context.Context, s settings.Settings) error
	ClearSettings(ctx context.Context) error
}

type SessionProvider func(ctx context.Context) (SettingsSession, error)

type ConfigCommandFactory struct {
	sessionProvider SessionProvider
	out             io.Writer
}

func NewConfigCommandFactory(provider SessionProvider) *ConfigCommandFactory {
	return &ConfigCommandFactory{sessionProvider: provider, out: os.Stdout}
}

// WithOutput replaces stdout.
func (c *ConfigCommandFactory) WithOutput(w io.Writer) *ConfigCommandFactory {
	c.out = w
	return c
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_command_usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newSetCommand(t, cfg),
			c.newClearCommand(t, cfg),
			c.newDoctorCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) open(ctx context.Context, t *i18n.Translations) (SettingsSession, error) {
	s, err := c.sessionProvider(ctx)
	if err != nil {
		ui.HandleAppError(c.out, err, t)
		return nil, err
	}
	return s, nil
}
