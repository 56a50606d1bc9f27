package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workcal/workcal/internal/calendar"
	"github.com/workcal/workcal/internal/model"
	"github.com/workcal/workcal/internal/parser"
)

// rawEntry is one element of the --entries file. Entries without a parsed
// payload are parsed from their raw text.
type rawEntry struct {
	EntryDate string              `json:"entry_date"`
	RawText   string              `json:"raw_text"`
	Parsed    *model.ParsedResult `json:"parsed,omitempty"`
}

func newCalendarCmd() *cobra.Command {
	var (
		entriesPath string
		month       string
		selected    string
	)
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Aggregate a JSON array of entries into a month view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var args []string
			if entriesPath != "" {
				args = []string{entriesPath}
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			entries, err := loadEntries(data)
			if err != nil {
				return err
			}
			if selected != "" {
				if selected, err = parser.ParseDate(selected); err != nil {
					return err
				}
			}
			year, m, err := calendar.ResolveMonth(month, selected, now())
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), "json", calendar.BuildView(entries, year, m, selected))
		},
	}
	cmd.Flags().StringVar(&entriesPath, "entries", "", "JSON file with [{entry_date, raw_text, parsed?}] (default stdin)")
	cmd.Flags().StringVar(&month, "month", "", "Month as YYYY-MM (default: month of --selected, else current)")
	cmd.Flags().StringVar(&selected, "selected", "", "Selected date as YYYY-MM-DD")
	return cmd
}

func loadEntries(data []byte) ([]model.LogEntry, error) {
	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	entries := make([]model.LogEntry, 0, len(raw))
	for _, r := range raw {
		entry := model.LogEntry{EntryDate: r.EntryDate, RawText: r.RawText}
		if r.Parsed != nil {
			entry.Parsed = *r.Parsed
		} else {
			parsed, err := parser.ParseEntry(r.RawText, r.EntryDate)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", r.EntryDate, err)
			}
			entry.Parsed = parsed
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
