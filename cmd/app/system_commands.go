package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/votesafe/cmd/app/commands"
	"github.com/allisson/votesafe/internal/app"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Serve the voting API and run the cleanup worker",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending schema migrations",
			Action: withContainer(func(_ context.Context, _ *cli.Command, container *app.Container) error {
				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			}),
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Recompute the integrity hash of audit entries in a time range",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "start-date",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Start date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				&cli.StringFlag{
					Name:     "end-date",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "End date in YYYY-MM-DD or YYYY-MM-DD HH:MM:SS format",
				},
				formatFlag(),
			},
			Action: withDataContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				auditUseCase, err := container.AuditUseCase()
				if err != nil {
					return err
				}
				return commands.RunVerifyAuditLogs(
					ctx,
					auditUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("start-date"),
					cmd.String("end-date"),
					cmd.String("format"),
				)
			}),
		},
	}
}
