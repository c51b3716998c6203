package config

import (
	"context"

	"github.com/Tomas-vilte/MateTicket/internal/config"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/urfave/cli/v3"
)

type checkStatus int

const (
	checkStatusOK checkStatus = iota
	checkStatusWarning
	checkStatusError
)

type checkResult struct {
	status checkStatus
	detail string
	err    error
}

type healthCheck struct {
	name string
	fn   func(s settings.Settings, cfg *config.Config) checkResult
}

// newDoctorCommand reports what is missing before analyze or load can work.
// A missing Jira connection is only a warning: the issue can be typed in.
func (c *ConfigCommandFactory) newDoctorCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "doctor",
		Aliases: []string{"dr"},
		Usage:   t.GetMessage("doctor_command_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			s, err := c.open(ctx, t)
			if err != nil {
				return err
			}
			return c.runHealthCheck(t, s.View().Settings, cfg)
		},
	}
}

func (c *ConfigCommandFactory) runHealthCheck(t *i18n.Translations, s settings.Settings, cfg *config.Config) error {
	ui.PrintSectionBanner(c.out, t.GetMessage("doctor_title", 0, nil))

	checks := []healthCheck{
		{name: "doctor_check_provider", fn: checkProvider},
		{name: "doctor_check_model", fn: checkModel},
		{name: "doctor_check_jira", fn: checkJira},
	}

	var warnings, failures int
	for _, check := range checks {
		line := t.GetMessage(check.name, 0, nil)
		result := check.fn(s, cfg)
		if result.detail != "" {
			line += ": " + result.detail
		}

		switch result.status {
		case checkStatusOK:
			ui.PrintSuccess(c.out, line)
		case checkStatusWarning:
			warnings++
			ui.PrintWarning(c.out, line)
		case checkStatusError:
			failures++
			ui.PrintError(c.out, line)
		}
		if result.err != nil {
			ui.HandleAppError(c.out, result.err, t)
		}
	}

	switch {
	case failures > 0:
		ui.PrintError(c.out, t.GetMessage("doctor_has_errors", 0, nil))
		return domainErrors.ErrActionFailed
	case warnings > 0:
		ui.PrintWarning(c.out, t.GetMessage("doctor_has_warnings", 0, nil))
	default:
		ui.PrintSuccess(c.out, t.GetMessage("doctor_all_good", 0, nil))
	}
	return nil
}

func checkProvider(s settings.Settings, _ *config.Config) checkResult {
	if err := s.Validate(); err != nil {
		return checkResult{status: checkStatusError, detail: string(s.Active().Provider), err: err}
	}
	return checkResult{status: checkStatusOK, detail: string(s.Active().Provider)}
}

func checkModel(s settings.Settings, _ *config.Config) checkResult {
	model := s.EffectiveModel()
	if !settings.IsSupportedModel(model) {
		return checkResult{status: checkStatusWarning, detail: string(model)}
	}
	return checkResult{status: checkStatusOK, detail: string(model)}
}

func checkJira(_ settings.Settings, cfg *config.Config) checkResult {
	if cfg == nil {
		return checkResult{status: checkStatusWarning, err: domainErrors.ErrJiraConfigMissing}
	}
	if err := config.ValidateJira(cfg); err != nil {
		return checkResult{status: checkStatusWarning, err: err}
	}
	return checkResult{status: checkStatusOK, detail: cfg.Jira.URL}
}
