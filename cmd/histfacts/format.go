package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ersonp/histfacts/internal/domain/entities"
)

func validateFormat(format string) error {
	if !slices.Contains(validFormats, format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", format, validFormats)
	}
	return nil
}

func formatRecords(w io.Writer, format string, records entities.RecordCollection) error {
	switch format {
	case "text":
		return formatText(w, records)
	case "json":
		return formatJSON(w, records)
	case "csv":
		return formatCSV(w, records)
	case "markdown":
		return formatMarkdown(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func formatText(w io.Writer, records entities.RecordCollection) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No historical records.")
		return err
	}

	for i, r := range records {
		if _, err := fmt.Fprintf(w, "%3d. %-12s %s\n", i+1, r.Date, truncate(r.Description, descriptionPreview)); err != nil {
			return err
		}
		if tags := categoryTags(r); tags != "" {
			if _, err := fmt.Fprintf(w, "     [%s]\n", tags); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatJSON(w io.Writer, records entities.RecordCollection) error {
	if records == nil {
		records = entities.RecordCollection{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func formatCSV(w io.Writer, records entities.RecordCollection) error {
	writer := csv.NewWriter(w)

	header := []string{"object_id", "date", "description", "lang", "category1", "category2", "granularity", "created_at", "updated_at"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.ObjectID,
			r.Date,
			r.Description,
			r.Language,
			r.Category1,
			r.Category2,
			r.Granularity,
			r.CreatedAt,
			r.UpdatedAt,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, records entities.RecordCollection) error {
	if _, err := fmt.Fprintf(w, "# Historical Records\n\nTotal: %d records\n\n", len(records)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Date | Description | Categories |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|-------------|------------|\n"); err != nil {
		return err
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s |\n",
			escapeMarkdown(r.Date),
			escapeMarkdown(r.Description),
			escapeMarkdown(categoryTags(r)),
		); err != nil {
			return err
		}
	}

	return nil
}

func formatRecordDetail(w io.Writer, r entities.HistoricalRecord) error {
	fields := []struct {
		label string
		value string
	}{
		{"Date", r.Date},
		{"Description", r.Description},
		{"Language", r.Language},
		{"Category 1", r.Category1},
		{"Category 2", r.Category2},
		{"Granularity", r.Granularity},
		{"Object ID", r.ObjectID},
		{"Created", r.CreatedAt},
		{"Updated", r.UpdatedAt},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", f.label+":", f.value); err != nil {
			return err
		}
	}
	return nil
}

func categoryTags(r entities.HistoricalRecord) string {
	tags := make([]string, 0, 2)
	for _, tag := range []string{r.Category1, r.Category2} {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, ", ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
