package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/votesafe/cmd/app/commands"
	"github.com/allisson/votesafe/internal/app"
)

func setUserEnabledCommand(name, usage string, enabled bool) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user",
				Aliases:  []string{"u"},
				Required: true,
				Usage:    "Username or email",
			},
		},
		Action: withDataContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
			userUseCase, err := container.UserUseCase()
			if err != nil {
				return err
			}

			return commands.RunSetUserEnabled(
				ctx,
				userUseCase,
				container.Logger(),
				commands.DefaultIO().Writer,
				cmd.String("user"),
				enabled,
			)
		}),
	}
}

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "register-user",
			Usage: "Register a voter and print the authenticator provisioning URI",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "username",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Login name",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (omit to read it from stdin)",
				},
				formatFlag(),
			},
			Action: withDataContainer(func(ctx context.Context, cmd *cli.Command, container *app.Container) error {
				userUseCase, err := container.UserUseCase()
				if err != nil {
					return err
				}

				return commands.RunRegisterUser(
					ctx,
					userUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("username"),
					cmd.String("email"),
					cmd.String("password"),
					cmd.String("format"),
				)
			}),
		},
		setUserEnabledCommand("enable-user", "Allow a voter to log in", true),
		setUserEnabledCommand("disable-user", "Block a voter from logging in", false),
	}
}
