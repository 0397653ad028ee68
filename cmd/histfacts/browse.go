package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/histfacts/internal/application/handlers"
	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/infrastructure/notify"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive mode for browsing historical records",
		Long:  "Fetches historical records and lets you filter, list and inspect them interactively.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(ctx, func(d *Deps) error {
				s := &browseSession{
					records: d.Records,
					toast:   d.Toast,
					out:     cmd.OutOrStdout(),
				}
				return s.run(ctx, cmd.InOrStdin())
			})
		},
	}
}

type browseSession struct {
	records *handlers.RecordsHandler
	toast   *notify.Toast
	out     io.Writer
}

func (s *browseSession) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "histfacts interactive mode. Type 'help' for commands.")
	s.refresh(ctx)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}

		if exit := s.handleCommand(ctx, scanner.Text()); exit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}

	return scanner.Err()
}

// handleCommand processes one input line. Returns true when the session should end.
func (s *browseSession) handleCommand(ctx context.Context, line string) bool {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
	case "quit", "exit":
		fmt.Fprintln(s.out, "Goodbye!")
		return true
	case "refresh":
		s.refresh(ctx)
	case "filter":
		s.filter(arg)
	case "clear":
		s.records.ClearFilter()
		fmt.Fprintln(s.out, "Filter cleared.")
	case "list":
		s.list()
	case "show":
		s.show(arg)
	case "categories":
		printCategoriesTo(s.out, entities.Categories(s.records.Snapshot().Records))
	case "status":
		s.status()
	case "help":
		s.showHelp()
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", command)
	}
	return false
}

func (s *browseSession) refresh(ctx context.Context) {
	fmt.Fprintln(s.out, "Fetching historical data...")
	if !s.records.Refresh(ctx) {
		fmt.Fprintln(s.out, "A fetch is already in progress.")
		return
	}

	state := s.records.Snapshot()
	switch {
	case ctx.Err() != nil:
		fmt.Fprintln(s.out, "Fetch cancelled.")
	case state.ErrorMessage != "" && state.HasRecords():
		fmt.Fprintf(s.out, "%s Showing %d earlier records.\n", state.ErrorMessage, len(state.Records))
	case state.ErrorMessage != "":
		fmt.Fprintln(s.out, state.ErrorMessage)
	default:
		fmt.Fprintf(s.out, "Loaded %d records.\n", len(state.Records))
	}
}

func (s *browseSession) filter(tag string) {
	if tag == "" {
		fmt.Fprintf(s.out, "Usage: filter <category>  (e.g. %q or %q)\n", entities.CategoryByPlace, entities.CategoryByTopic)
		return
	}

	s.records.FilterByCategory(tag)
	state := s.records.Snapshot()
	if state.FilteredRecords == nil {
		fmt.Fprintf(s.out, "Filter %q set. No records loaded yet.\n", tag)
		return
	}
	fmt.Fprintf(s.out, "%d records in %q.\n", len(state.FilteredRecords), tag)
}

func (s *browseSession) list() {
	if err := formatText(s.out, s.records.Visible()); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// show prints one record, addressed by its position in the visible list
// or by its object ID.
func (s *browseSession) show(arg string) {
	visible := s.records.Visible()

	record, found := s.records.Snapshot().Records.FindByObjectID(arg)
	if !found {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 || n > len(visible) {
			fmt.Fprintf(s.out, "Usage: show <n|objectId> where n is between 1 and %d\n", len(visible))
			return
		}
		record = visible[n-1]
	}

	if err := formatRecordDetail(s.out, record); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *browseSession) status() {
	state := s.records.Snapshot()

	category := state.Category
	if category == "" {
		category = "(none)"
	}
	fmt.Fprintf(s.out, "Loading:  %t\n", state.IsLoading)
	fmt.Fprintf(s.out, "Records:  %d\n", len(state.Records))
	fmt.Fprintf(s.out, "Filter:   %s\n", category)
	if state.FilteredRecords != nil {
		fmt.Fprintf(s.out, "Filtered: %d\n", len(state.FilteredRecords))
	}
	if state.ErrorMessage != "" {
		fmt.Fprintf(s.out, "Error:    %s\n", state.ErrorMessage)
	}
	if s.toast != nil {
		if n, ok := s.toast.Current(); ok {
			fmt.Fprintf(s.out, "Notice:   [%s] %s\n", n.Severity, n.Message)
		}
	}
}

func (s *browseSession) showHelp() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintln(s.out, "  refresh         - Fetch historical data again")
	fmt.Fprintln(s.out, "  filter <tag>    - Show only records in a category")
	fmt.Fprintln(s.out, "  clear           - Remove the category filter")
	fmt.Fprintln(s.out, "  list            - List visible records")
	fmt.Fprintln(s.out, "  show <n|id>     - Show details of record n or of an object ID")
	fmt.Fprintln(s.out, "  categories      - List categories with counts")
	fmt.Fprintln(s.out, "  status          - Show the current view state")
	fmt.Fprintln(s.out, "  quit            - Exit interactive mode")
}
