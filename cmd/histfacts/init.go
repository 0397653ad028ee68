package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a histfacts configuration",
		Long:  "Creates a .histfacts directory with the default configuration.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	base, err := basePath()
	if err != nil {
		return err
	}

	if config.Exists(base) {
		return fmt.Errorf("histfacts already initialized in %s", base)
	}

	if err := config.WriteDefault(base); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", config.ConfigFilePath(base))
	fmt.Fprintf(out, "Set parse.application_id (or %sAPPLICATION_ID) before fetching.\n", config.EnvPrefix)

	return nil
}
