// Package main provides the entry point for the NutritionTracker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for NutritionTracker.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nutritiontracker",
		Short: "Campus dining nutrition scraper and receipt logger",
		Long: `NutritionTracker builds a per-location nutrition dictionary from campus
dining menus and turns grocery receipt photos into logged meals.

The scan command fetches every dining location's menu for a date,
resolves per-serving nutrition for each listed item, and writes a JSON
envelope with the aggregate dictionary and per-location results.

The receipt command runs OCR over a receipt photo, parses the line
items, and resolves each item's nutrition by name.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewReceiptCmd())
	cmd.AddCommand(NewLocationsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
