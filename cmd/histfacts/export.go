package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

type exportFlags struct {
	format   string
	output   string
	category string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export historical records to file",
		Long:  "Fetches historical records and writes them as JSON, CSV, markdown or text.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (text, json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (required)")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Export only records tagged with this category")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if err := validateFormat(flags.format); err != nil {
		return err
	}
	if flags.output == "" {
		return errors.New("output file is required (use --output)")
	}

	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		records, err := loadRecords(ctx, d.Records, flags.category)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return errors.New("no records found to export")
		}

		if err := writeExport(flags.output, flags.format, records); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s records to %s\n", humanize.Comma(int64(len(records))), flags.output)
		return nil
	})
}

func writeExport(path, format string, records entities.RecordCollection) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	var w io.Writer = f
	if err := formatRecords(w, format, records); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}
