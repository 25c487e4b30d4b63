package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spreadingweeds/extension/internal/handlers"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <night.yaml>",
	Short: "Replay a scripted night against the configured ledger",
	Long: "simulate feeds every tile of a night file through the destruction classifier, " +
		"then starts the next day and prints the damage report.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		night, err := loadNight(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		a, err := newApp(cmd.Context(), appOptions{Notifier: writerNotifier{w: out}})
		if err != nil {
			return err
		}
		defer a.close()

		for _, loc := range night.Locations {
			a.setDisplayName(loc.Name, loc.DisplayName)
		}

		recorded, skipped := 0, 0
		for i, t := range night.Tiles {
			tileArgs, err := night.tileArgs(t)
			if err != nil {
				return fmt.Errorf("tile %d: %w", i, err)
			}
			res, err := a.dispatch(handlers.CmdTileDestroyed, tileArgs...)
			if err != nil {
				return fmt.Errorf("tile %d: %w", i, err)
			}
			if res == handlers.ResultRecorded {
				recorded++
			} else {
				skipped++
			}
		}
		fmt.Fprintf(out, "Night replayed: %d recorded, %d skipped\n", recorded, skipped)

		if _, err := a.dispatch(handlers.CmdDayStart, night.dayArgs()...); err != nil {
			return err
		}
		report, err := a.dispatch(handlers.CmdConsole, "report")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
