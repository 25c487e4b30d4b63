package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spreadingweeds/extension/internal/handlers"
)

// newConsoleCommand runs one of the console commands against the
// configured ledger. prepare, when set, runs first on the fresh app.
func newConsoleCommand(name, short string, prepare func(a *app) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer a.close()

			if prepare != nil {
				if err := prepare(a); err != nil {
					return err
				}
			}
			out, err := a.dispatch(handlers.CmdConsole, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// dateFlags is the in-game date a command pretends it is.
type dateFlags struct {
	totalDays  int
	dayOfMonth int
	season     string
}

func (d *dateFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&d.totalDays, "day", 1, "total days played")
	cmd.Flags().IntVar(&d.dayOfMonth, "day-of-month", 1, "day of the month (1-28)")
	cmd.Flags().StringVar(&d.season, "season", "spring", "season")
}

func (d *dateFlags) args() []string {
	return []string{strconv.Itoa(d.totalDays), strconv.Itoa(d.dayOfMonth), d.season}
}

// startDay runs the morning pass so the session holds today's entries
// and report.
func (d *dateFlags) startDay(a *app) error {
	_, err := a.dispatch(handlers.CmdDayStart, d.args()...)
	return err
}

func init() {
	var dataOut string
	dataCmd := newConsoleCommand("data", "Print the options and every ledger entry", func(a *app) error {
		if dataOut == "" {
			return nil
		}
		return a.manager.WriteData(dataOut)
	})
	dataCmd.Flags().StringVar(&dataOut, "out", "", "also write the dump to this file")

	var reportDate dateFlags
	reportCmd := newConsoleCommand("report", "Build and print the damage report for a day", reportDate.startDay)
	reportDate.register(reportCmd)

	rootCmd.AddCommand(
		dataCmd,
		newConsoleCommand("clear", "Remove every ledger entry, damage flags included", nil),
		reportCmd,
	)
}
