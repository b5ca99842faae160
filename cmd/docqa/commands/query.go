// ABOUTME: CLI command to show the raw retrieval results for a query
// ABOUTME: Lists nearest chunks with scores, without calling the chat model
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	queryTopK int
)

// NewQueryCmd creates query command
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Show the chunks nearest to a query",
		Long: `Show the indexed chunks most similar to a query.

Useful for checking what an answer would be grounded on. Scores are
1 - cosine distance, clamped at zero.

Examples:
  docqa query "expense approval"
  docqa query --top-k 10 --format yaml "travel policy"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runQuery,
	}

	cmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "Number of chunks to return (default TOP_K)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("top-k") {
		if err := validatePositiveInt(queryTopK, "top-k"); err != nil {
			return err
		}
	}
	query := strings.Join(args, " ")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	hits, err := a.Assistant.Search(cmd.Context(), query, queryTopK)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if structured() {
		return writeStructured(cmd.OutOrStdout(), hits)
	}

	if len(hits) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No chunks found for query: %s\n", query)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tCITATION\tPAGE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t--------\t----\t-------\n")
	for _, hit := range hits {
		page := "-"
		if hit.Chunk.HasPage() {
			page = fmt.Sprintf("%d", *hit.Chunk.Page)
		}
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
			hit.Score,
			hit.Chunk.Citation(),
			page,
			truncate(snippet(hit.Chunk.Text, 200), 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d chunk(s)\n", len(hits))
	}
	return nil
}
