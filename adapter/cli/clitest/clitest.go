// Package clitest wires a CLI App to a throwaway SQLite database for command tests.
package clitest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/tskprio/adapter/cli"
	internalApp "github.com/felixgeelhaar/tskprio/internal/app"
	"github.com/felixgeelhaar/tskprio/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// Setup creates an App over a fresh database, installs it globally and
// removes it when the test ends.
func Setup(t *testing.T) *cli.App {
	t.Helper()

	cfg := config.Default()
	cfg.AppEnv = "test"
	cfg.DatabaseDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "test.db")
	cfg.LogLevel = "error"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	a := cli.NewApp(container)
	cli.SetApp(a)
	t.Cleanup(func() {
		cli.SetApp(nil)
		container.Close()
	})
	return a
}

// Run invokes cmd's RunE with args and returns what it printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	defer cmd.SetOut(nil)

	err := cmd.RunE(cmd, args)
	return out.String(), err
}
