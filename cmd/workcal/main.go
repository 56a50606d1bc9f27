package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/workcal/workcal/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "workcal",
		Short: "WorkCal turns free-text daily logs into calendar events",
		Long: `workcal parses unstructured daily logs ("9am standup, 6:30pm squat session")
into timed events and serves them as a month calendar with activity badges.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newParseCmd(), newCalendarCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log := logger.Bootstrap()
		log.Error().Err(err).Msg("workcal failed")
		os.Exit(1)
	}
}
