package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/eco/internal/config"
	"github.com/example/eco/internal/wire"
)

var effortsCmd = &cobra.Command{
	Use:   "efforts",
	Short: "List active colonization efforts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.EffortAdapterWithOutput(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.List(cmd.Context())
	},
}

var effortCmd = &cobra.Command{
	Use:   "effort [effort-id]",
	Short: "Show one active effort",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.EffortAdapterWithOutput(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Show(cmd.Context(), args[0])
	},
}

var addCmd = &cobra.Command{
	Use:   "add [system] [installation] [owner]",
	Short: "Register a new colonization effort",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.EffortAdapterWithOutput(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Create(cmd.Context(), args[0], args[1], args[2])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [effort-id] [materials...|-]",
	Short: "Replace the outstanding materials of an effort",
	Long: `Replace the outstanding materials of an effort with a pasted block of
"<Commodity> <quantity>" pairs. Use - to read the block from stdin.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := readBlock(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		adapter, err := wire.EffortAdapterWithOutput(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Update(cmd.Context(), args[0], block)
	},
}

var deliverCmd = &cobra.Command{
	Use:   "deliver [effort-id] [materials...|-]",
	Short: "Record a delivery against an effort",
	Long: `Subtract delivered "<Commodity> <quantity>" pairs from an effort.
Use - to read the block from stdin.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := readBlock(cmd.InOrStdin(), args[1:])
		if err != nil {
			return err
		}
		adapter, err := wire.EffortAdapterWithOutput(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Deliver(cmd.Context(), args[0], block)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the ledger into another storage backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("to")
		force, _ := cmd.Flags().GetBool("force")
		if err := validateBackend(target); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		result, err := wire.Migrate(ctx, target, force)
		if err != nil {
			return fmt.Errorf("failed to migrate ledger: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Migrated %d efforts from %s to %s.\n", result.Efforts, result.From, result.To)
		return nil
	},
}

// readBlock joins the material arguments, or reads stdin when the only
// argument is "-".
func readBlock(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read materials from stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func validateBackend(backend string) error {
	switch backend {
	case config.BackendJSON, config.BackendSQLite:
		return nil
	default:
		return fmt.Errorf("invalid backend %q: must be %s or %s", backend, config.BackendJSON, config.BackendSQLite)
	}
}

// EffortCmds returns the effort ledger commands.
func EffortCmds() []*cobra.Command {
	migrateCmd.Flags().String("to", "", "Target backend (json or sqlite)")
	migrateCmd.Flags().BoolP("force", "f", false, "Overwrite a destination that already holds efforts")
	_ = migrateCmd.MarkFlagRequired("to")

	return []*cobra.Command{effortsCmd, effortCmd, addCmd, updateCmd, deliverCmd, migrateCmd}
}
