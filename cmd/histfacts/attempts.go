package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ersonp/histfacts/internal/domain/ports"
)

func newAttemptsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "attempts",
		Short: "Fetch once and show the attempt journal",
		Long:  "Runs one fetch cycle and prints every remote attempt recorded in the journal, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				d.Records.Refresh(ctx)
				if err := ctx.Err(); err != nil {
					return err
				}

				entries, err := d.Journal.ListAttempts(ctx, limit)
				if err != nil {
					return fmt.Errorf("listing attempts: %w", err)
				}
				failures, err := d.Journal.CountFailures(ctx)
				if err != nil {
					return fmt.Errorf("counting failures: %w", err)
				}
				return printAttempts(cmd.OutOrStdout(), entries, failures)
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultAttemptsLimit, "Maximum number of attempts to show")

	return cmd
}

func printAttempts(w io.Writer, entries []ports.AttemptEntry, failures int) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded.")
		return err
	}

	if _, err := fmt.Fprintf(w, "%s attempts, %s failed\n\n",
		humanize.Comma(int64(len(entries))), humanize.Comma(int64(failures))); err != nil {
		return err
	}

	for _, e := range entries {
		line := fmt.Sprintf("%d/%d  %-7s  %-8s  %s  cycle %s",
			e.Attempt, e.MaxAttempts, e.Outcome, e.Duration.Round(time.Millisecond), humanize.Time(e.StartedAt), shortID(e.CycleID))
		if e.Error != "" {
			line += "  " + e.Error
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
