package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nnode/seeder/internal/bootstrap"
	"github.com/nnode/seeder/internal/seeder"
)

var configFile string

// newBootstrap is replaced in tests to inject a document store.
var newBootstrap = bootstrap.New

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seeder",
		Short: "Insert the fixed user records into MongoDB",
		Long: `Connects to the MongoDB endpoint given by MONGO_URI, inserts the three
fixed user records into HelloWorld.Users in one batch, logs the result
and disconnects. The connection is released on every exit path.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSeed,
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to configuration file")
	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bs := newBootstrap()
	if err := bs.Initialize(ctx, configFile); err != nil {
		return err
	}

	// Connection and insert failures are logged by Run after the connection
	// is released; they end the process normally.
	_, err := bs.Run(ctx)
	if isSeedFailure(err) {
		return nil
	}
	return err
}

func isSeedFailure(err error) bool {
	var connErr *seeder.ConnectionError
	var insertErr *seeder.InsertError
	return errors.As(err, &connErr) || errors.As(err, &insertErr)
}

// contextOrBackground keeps runSeed usable when cobra is driven without ExecuteContext.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
