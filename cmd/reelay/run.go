package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/reelay/reelay/pkg/cmd"
	"github.com/reelay/reelay/pkg/event_bus"
	"github.com/reelay/reelay/pkg/log"
)

func runOnce(ctx context.Context, command *cli.Command) error {
	logger := log.WithModule("reelay")

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

	var result map[string]any

	if workflowID := command.String("workflow-id"); workflowID != "" {
		executor := cmd.NewExecutor(ctx, persistence, secretsStore, eventBus, logger)

		result, err = executor.Execute(ctx, workflowID)
	} else {
		runner := cmd.NewVideoCreationRunner(ctx, persistence, secretsStore, eventBus, logger)

		result, err = runner.Run(ctx, nil)
	}

	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, string(encoded))

	return nil
}
