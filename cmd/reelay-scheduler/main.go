package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	"github.com/reelay/reelay/pkg/cmd"
	"github.com/reelay/reelay/pkg/event_bus"
	"github.com/reelay/reelay/pkg/log"
	"github.com/reelay/reelay/pkg/schedule"
)

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "reelay-scheduler",
		Usage:                 "Run scheduled workflows on their cron expressions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
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
			&cli.DurationFlag{
				Name:    "sync-interval",
				Usage:   "How often to reconcile cron entries with stored workflows",
				Value:   time.Minute,
				Sources: cli.EnvVars("SYNC_INTERVAL"),
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

			logger.InfoContext(ctx, "Initializing Reelay Scheduler")

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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
			scheduler := schedule.NewScheduler(persistence, executor.Execute, logger)

			err = scheduler.Start(ctx, command.Duration("sync-interval"))
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return err
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
