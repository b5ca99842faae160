// ABOUTME: CLI command to clear the index
// ABOUTME: Drops and recreates the configured collection
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewResetCmd creates reset command
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove all indexed documents",
		Long: `Remove all indexed documents from the configured collection.

Examples:
  docqa reset
  DOCQA_COLLECTION=manuals docqa reset`,
		Args: cobra.NoArgs,
		RunE: runReset,
	}

	return cmd
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Assistant.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	if structured() {
		return writeStructured(cmd.OutOrStdout(), map[string]interface{}{
			"success":    true,
			"collection": a.Config.Collection,
		})
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Reset complete.\n")
	}
	return nil
}
