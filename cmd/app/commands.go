package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/votesafe/cmd/app/commands"
	"github.com/allisson/votesafe/internal/app"
	"github.com/allisson/votesafe/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getUserCommands()...)
	cmds = append(cmds, getElectionCommands()...)
	return cmds
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// withContainer builds a container from the environment for one command run
// and shuts it down afterwards.
func withContainer(
	action func(ctx context.Context, cmd *cli.Command, container *app.Container) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		container := app.NewContainer(config.Load())
		defer commands.CloseContainer(container, container.Logger())
		return action(ctx, cmd, container)
	}
}

// withDataContainer is withContainer for commands that work on stored voting
// data. It refuses to run against the memory driver before building anything.
func withDataContainer(
	action func(ctx context.Context, cmd *cli.Command, container *app.Container) error,
) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		if err := commands.RequirePersistentStorage(cfg.DBDriver); err != nil {
			return err
		}

		container := app.NewContainer(cfg)
		defer commands.CloseContainer(container, container.Logger())
		return action(ctx, cmd, container)
	}
}
