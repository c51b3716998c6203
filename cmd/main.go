package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/Tomas-vilte/MateTicket/internal/ai/openai"
	configcmd "github.com/Tomas-vilte/MateTicket/internal/cli/command/config"
	"github.com/Tomas-vilte/MateTicket/internal/cli/command/ticket"
	"github.com/Tomas-vilte/MateTicket/internal/cli/registry"
	cfg "github.com/Tomas-vilte/MateTicket/internal/config"
	"github.com/Tomas-vilte/MateTicket/internal/di"
	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/ui"
	"github.com/Tomas-vilte/MateTicket/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, container, err := initializeApp()
	if err != nil {
		log.Fatalf("Error starting the cli: %v", err)
	}

	runErr := app.Run(context.Background(), os.Args)
	if err := container.Close(); err != nil {
		log.Printf("Warning: %v", err)
	}

	if runErr != nil {
		var appErr *domainErrors.AppError
		if !errors.As(runErr, &appErr) {
			ui.PrintError(os.Stderr, runErr.Error())
		}
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *di.Container, error) {
	cfgApp, err := cfg.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	logger.Initialize(cfgApp.LogLevel == "debug", cfgApp.LogLevel == "info")

	translations, err := i18n.NewTranslations(cfgApp.Language, cfgApp.LocalesDir())
	if err != nil {
		return nil, nil, err
	}

	container := di.NewContainer(cfgApp, translations)

	if err := openai.Register(container.GetAIRegistry()); err != nil {
		log.Printf("Warning: could not register the OpenAI providers: %v", err)
	}

	ticketSession := func(ctx context.Context, issueOverride string) (ticket.Session, error) {
		return container.GetSession(ctx, issueOverride)
	}
	settingsSession := func(ctx context.Context) (configcmd.SettingsSession, error) {
		return container.GetSession(ctx, "")
	}

	tickets := ticket.NewTicketCommandFactory(ticketSession)
	registerCommand := registry.NewRegistry(container.GetConfig(), container.GetTranslations())

	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"show", registry.CommandFactoryFunc(tickets.NewShowCommand)},
		{"set", registry.CommandFactoryFunc(tickets.NewSetCommand)},
		{"load", registry.CommandFactoryFunc(tickets.NewLoadCommand)},
		{"analyze", registry.CommandFactoryFunc(tickets.NewAnalyzeCommand)},
		{"subissues", registry.CommandFactoryFunc(tickets.NewSubIssuesCommand)},
		{"copy", registry.CommandFactoryFunc(tickets.NewCopyCommand)},
		{"copy-subticket", registry.CommandFactoryFunc(tickets.NewCopySubTicketCommand)},
		{"clear", registry.CommandFactoryFunc(tickets.NewClearCommand)},
		{"config", configcmd.NewConfigCommandFactory(settingsSession)},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			log.Fatalf("Error registering the '%s' command: %v", f.name, err)
		}
	}

	commands := registerCommand.CreateCommands()

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	return &cli.Command{
		Name:        "mate-ticket",
		Usage:       translations.GetMessage("app_usage", 0, nil),
		Version:     version.FullVersion(),
		Description: translations.GetMessage("app_description", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag_debug_usage", 0, nil),
				Action: func(_ context.Context, _ *cli.Command, on bool) error {
					if on {
						logger.Initialize(true, false)
					}
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flag_verbose_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command, on bool) error {
					if on && !cmd.Bool("debug") {
						logger.Initialize(false, true)
					}
					return nil
				},
			},
			&cli.StringFlag{
				Name:    "issue",
				Aliases: []string{"i"},
				Usage:   translations.GetMessage("flag_issue_usage", 0, nil),
			},
		},
		Commands:              commands,
		EnableShellCompletion: true,
	}, container, nil
}
