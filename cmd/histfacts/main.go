// Package main provides the entry point for the histfacts CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version         = "0.1.0-dev"
	globalConfigDir string
	globalLogLevel  string
	globalLogFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := newRootCmd()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "histfacts",
		Short:         "Browse historical facts served by a Parse backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalConfigDir, "config-dir", "C", "", "Directory containing .histfacts (default: current directory)")
	flags.StringVar(&globalLogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flags.StringVar(&globalLogFormat, "log-format", "", "Log format override (text, json)")

	rootCmd.AddCommand(
		newInitCmd(),
		newFetchCmd(),
		newCategoriesCmd(),
		newExportCmd(),
		newBrowseCmd(),
		newAttemptsCmd(),
	)

	return rootCmd
}
