package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/votesafe/cmd/app/commands"
	"github.com/allisson/votesafe/internal/app"
	"github.com/allisson/votesafe/internal/config"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
)

func kmsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "kms-provider",
			Value:    "",
			Required: true,
			Usage:    "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
		},
		&cli.StringFlag{
			Name:     "kms-key-uri",
			Value:    "",
			Required: true,
			Usage:    "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
		},
	}
}

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a KMS-wrapped master key for election keys and OTP secrets",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Master key ID (e.g., prod-master-key-2026)",
				},
			}, kmsFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunCreateMasterKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "rotate-master-key",
			Usage: "Generate a new master key and append it to MASTER_KEYS as the active key",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "New master key ID (e.g., prod-master-key-2027)",
				},
			}, kmsFlags()...),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer commands.CloseContainer(container, container.Logger())

				return commands.RunRotateMasterKey(
					ctx,
					cryptoService.NewKMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
					os.Getenv("MASTER_KEYS"),
					os.Getenv("ACTIVE_MASTER_KEY_ID"),
				)
			},
		},
		{
			Name:  "rotate-election-key",
			Usage: "Add a new key version for an election",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "election",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Election ID",
				},
				formatFlag(),
			},
			Action: withDataContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				voteCryptoUseCase, err := container.VoteCryptoUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateElectionKey(
					ctx,
					voteCryptoUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("election"),
					cmd.String("format"),
				)
			}),
		},
	}
}
