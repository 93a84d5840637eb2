package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhiatluri/NutritionTracker/internal/config"
	applog "github.com/abhiatluri/NutritionTracker/internal/log"
	"github.com/abhiatluri/NutritionTracker/internal/menu"
)

// NewLocationsCmd creates the locations command.
func NewLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the dining locations known to the menu API",
		Long: `Locations queries the menu API for every dining location it serves.
The printed names are the values accepted by scan --locations.`,
		Args: cobra.NoArgs,
		RunE: runLocationsCmd,
	}
}

// runLocationsCmd executes the locations command.
func runLocationsCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	config.LoadEnv(cfg)

	logger := applog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	client := menu.NewClient(&http.Client{}, cfg.MenuAPIBaseURL,
		menu.WithLogger(logger),
		menu.WithUserAgent(cfg.UserAgent),
		menu.WithMenuTimeout(cfg.Timeout),
		menu.WithMaxBodySize(cfg.MaxBodySize),
	)

	locations, err := client.Locations(ctx)
	if err != nil {
		return err
	}

	for _, loc := range locations {
		if loc.FormalName != "" && loc.FormalName != loc.Name {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", loc.Name, loc.FormalName)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), loc.Name)
	}
	return nil
}
