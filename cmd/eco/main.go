package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/eco/internal/cli"
	"github.com/example/eco/internal/version"
	"github.com/example/eco/internal/wire"
)

func main() {
	var overrides wire.Overrides

	rootCmd := &cobra.Command{
		Use:     "eco",
		Short:   "eco - Colonization effort ledger",
		Version: version.String(),
		Long: `eco tracks colonization efforts: the commodities each construction site
still needs, and the deliveries made against them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.Configure(overrides)
		},
	}

	rootCmd.PersistentFlags().StringVar(&overrides.Backend, "backend", "", "Ledger backend: json or sqlite (overrides ECO_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&overrides.DataDir, "data-dir", "", "Ledger directory (overrides ECO_DATA_DIR)")

	// Add subcommands
	rootCmd.AddCommand(cli.EffortCmds()...)

	err := rootCmd.Execute()
	if shutdownErr := wire.Shutdown(); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
