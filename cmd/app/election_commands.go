package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/votesafe/cmd/app/commands"
	"github.com/allisson/votesafe/internal/app"
)

func getElectionCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "tally-election",
			Usage: "Decrypt and count the ballots of an election",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "election",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Election ID",
				},
				&cli.StringFlag{
					Name:  "actor",
					Value: "cli",
					Usage: "Actor recorded in the audit trail",
				},
				formatFlag(),
			},
			Action: withDataContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				ballotUseCase, err := container.BallotUseCase()
				if err != nil {
					return err
				}

				return commands.RunTallyElection(
					ctx,
					ballotUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("election"),
					cmd.String("actor"),
					cmd.String("format"),
				)
			}),
		},
	}
}
