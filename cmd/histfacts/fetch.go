package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ersonp/histfacts/internal/application/handlers"
	"github.com/ersonp/histfacts/internal/domain/entities"
)

type fetchFlags struct {
	category string
	format   string
}

func newFetchCmd() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch historical records and print them",
		Long:  "Runs one fetch cycle against the backend, retrying on failure, then prints the visible records.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Show only records tagged with this category")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format (text, json, csv, markdown)")

	return cmd
}

func runFetch(cmd *cobra.Command, flags fetchFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		records, err := loadRecords(ctx, d.Records, flags.category)
		if err != nil {
			return err
		}
		return formatRecords(cmd.OutOrStdout(), flags.format, records)
	})
}

// loadRecords runs one refresh cycle and returns the records visible under
// the given category. Stale records are returned when the cycle failed
// but an earlier one succeeded.
func loadRecords(ctx context.Context, h *handlers.RecordsHandler, category string) (entities.RecordCollection, error) {
	if category != "" {
		h.FilterByCategory(category)
	}

	h.Refresh(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := h.Snapshot()
	if state.ErrorMessage != "" && !state.HasRecords() {
		return nil, errors.New(state.ErrorMessage)
	}
	return h.Visible(), nil
}
