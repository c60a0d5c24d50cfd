package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/reelay/reelay/pkg/cmd"
	"github.com/reelay/reelay/pkg/event_bus"
	"github.com/reelay/reelay/pkg/log"
)

const defaultPort = 9090

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "reelay-api",
		Usage:                 "Serve the automation dashboard API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "key-file",
				Usage:   "Path to the credential encryption key file",
				Value:   ".encryption_key",
				Sources: cli.EnvVars("KEY_FILE"),
			},
			&cli.StringFlag{
				Name:    "assistant-model",
				Usage:   "Chat completion model for the dashboard assistant",
				Value:   "",
				Sources: cli.EnvVars("ASSISTANT_MODEL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Reelay API")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(logger)
			defer func() {
				err := eventBus.Close()
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			sink := event_bus.NewLogSink(persistence.Logs(), logger)

			err = sink.Start(ctx, eventBus)
			if err != nil {
				return err
			}

			secretsStore, err := cmd.NewSecretsStore(persistence, command.String("key-file"))
			if err != nil {
				return err
			}

			executor := cmd.NewExecutor(ctx, persistence, secretsStore, eventBus, logger)
			assistant := cmd.NewAssistant(ctx, secretsStore, command.String("assistant-model"))

			api := NewAPI(logger, persistence, executor, assistant)

			return api.Start(ctx, command.Int("port"))
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
