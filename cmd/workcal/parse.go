package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/workcal/workcal/internal/model"
	"github.com/workcal/workcal/internal/parser"
)

// now is the clock behind default dates.
var now = time.Now

func newParseCmd() *cobra.Command {
	var (
		date   string
		format string
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a daily log from a file or stdin and print the events",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if date == "" {
				date = now().UTC().Format(model.DateLayout)
			}
			parsed, err := parser.ParseEntry(string(raw), date)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, parsed)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Entry date as YYYY-MM-DD (default today, UTC)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or yaml")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
