package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	"github.com/felixgeelhaar/tskprio/adapter/cli/plan"
	"github.com/felixgeelhaar/tskprio/adapter/cli/project"
	"github.com/felixgeelhaar/tskprio/adapter/cli/task"
	"github.com/felixgeelhaar/tskprio/adapter/cli/transfer"
	"github.com/felixgeelhaar/tskprio/internal/app"
	"github.com/felixgeelhaar/tskprio/pkg/config"
	"github.com/felixgeelhaar/tskprio/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cli.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	// The container is built after flag parsing so --config applies.
	cli.SetBootstrap(func(ctx context.Context, configPath string) (*cli.App, func(), error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}

		logger := observability.NewLogger(observability.LogConfigFrom(cfg, "tskprio"))
		cli.SetLogger(logger)

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return cli.NewApp(container), container.Close, nil
	})

	// Register commands
	cli.AddCommand(project.Cmd)
	cli.AddCommand(task.Cmd)
	cli.AddCommand(plan.MatrixCmd)
	cli.AddCommand(plan.Cmd)
	cli.AddCommand(transfer.ImportCmd)
	cli.AddCommand(transfer.ExportCmd)

	code := cli.Execute(ctx)
	cancel()
	os.Exit(code)
}
