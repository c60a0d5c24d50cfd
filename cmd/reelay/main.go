package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/reelay/reelay/pkg/log"
)

func main() {
	_ = godotenv.Load()

	command := &cli.Command{
		Name:                  "reelay",
		Usage:                 "Create and publish AI short videos",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:       "database-url",
				Usage:      "Database connection URL for persistence",
				Required:   true,
				Sources:    cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:       "key-file",
				Usage:      "Path to the credential encryption key file",
				Value:      ".encryption_key",
				Sources:    cli.EnvVars("KEY_FILE"),
			},
			&cli.StringFlag{
				Name:       "log-level",
				Usage:      "Log level (debug, info, warn, error)",
				Value:      "info",
				Sources:    cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Execute one video creation run and exit",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "workflow-id",
						Usage: "Run a stored workflow instead of an ad-hoc pipeline run",
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					log.Setup(command.String("log-level"))

					return runOnce(ctx, command)
				},
			},
			{
				Name:    "credentials",
				Aliases: []string{"c"},
				Usage:   "Manage encrypted service credentials",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "Store an API key for a service",
						ArgsUsage: "<service> <api-key>",
						Action: func(ctx context.Context, command *cli.Command) error {
							log.Setup(command.String("log-level"))

							return setCredential(ctx, command)
						},
					},
					{
						Name:  "list",
						Usage: "List services with stored credentials",
						Action: func(ctx context.Context, command *cli.Command) error {
							log.Setup(command.String("log-level"))

							return listCredentials(ctx, command)
						},
					},
				},
			},
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
