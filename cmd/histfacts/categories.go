package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories of the fetched records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				records, err := loadRecords(ctx, d.Records, "")
				if err != nil {
					return err
				}
				printCategoriesTo(cmd.OutOrStdout(), entities.Categories(records))
				return nil
			})
		},
	}
}

func printCategoriesTo(out io.Writer, counts []entities.CategoryCount) {
	if len(counts) == 0 {
		fmt.Fprintln(out, "No categories found.")
		return
	}
	for _, c := range counts {
		fmt.Fprintf(out, "%-24s %s\n", c.Tag, humanize.Comma(int64(c.Count)))
	}
}
