// ABOUTME: CLI command to list indexed documents
// ABOUTME: Shows each source with the number of chunks it contributed
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewSourcesCmd creates sources command
func NewSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List indexed documents",
		Long: `List the documents in the index with their chunk counts.

Examples:
  docqa sources
  docqa sources --format json`,
		Args: cobra.NoArgs,
		RunE: runSources,
	}

	return cmd
}

func runSources(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sources, err := a.Assistant.Sources(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if structured() {
		return writeStructured(cmd.OutOrStdout(), sources)
	}

	if len(sources) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No documents loaded yet.\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SOURCE\tCHUNKS\n")
	fmt.Fprintf(w, "------\t------\n")
	for _, s := range sources {
		fmt.Fprintf(w, "%s\t%d\n", s.Source, s.Chunks)
	}
	return w.Flush()
}
