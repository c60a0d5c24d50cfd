package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/reelay/reelay/pkg/cmd"
	"github.com/reelay/reelay/pkg/log"
	"github.com/reelay/reelay/pkg/secrets"
)

func openSecrets(ctx context.Context, command *cli.Command) (*secrets.Store, func(), error) {
	logger := log.WithModule("reelay")

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, nil, err
	}

	closer := func() {
		err := persistence.Close(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}

	store, err := cmd.NewSecretsStore(persistence, command.String("key-file"))
	if err != nil {
		closer()

		return nil, nil, err
	}

	return store, closer, nil
}

func setCredential(ctx context.Context, command *cli.Command) error {
	args := command.Args()
	if args.Len() != 2 {
		return errors.New("usage: reelay credentials set <service> <api-key>")
	}

	store, closer, err := openSecrets(ctx, command)
	if err != nil {
		return err
	}
	defer closer()

	err = store.Set(ctx, args.Get(0), args.Get(1))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Stored credential for %s\n", args.Get(0))

	return nil
}

func listCredentials(ctx context.Context, command *cli.Command) error {
	store, closer, err := openSecrets(ctx, command)
	if err != nil {
		return err
	}
	defer closer()

	services, err := store.Services(ctx)
	if err != nil {
		return err
	}

	if len(services) == 0 {
		fmt.Fprintln(os.Stdout, "No credentials stored")

		return nil
	}

	for _, service := range services {
		fmt.Fprintln(os.Stdout, service)
	}

	return nil
}
