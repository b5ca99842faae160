// ABOUTME: CLI command to index documents
// ABOUTME: Chunks and embeds .pdf, .txt and .md files into the collection
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	ingestReset bool
)

// NewIngestCmd creates ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Index documents",
		Long: `Index one or more .pdf, .txt or .md files.

The index is cleared first so that it holds exactly the given files.
Pass --reset=false to add to the existing index instead. Files are
processed in order and the first failure stops the batch; files
indexed before it stay indexed.

Examples:
  docqa ingest handbook.pdf faq.md
  docqa ingest --reset=false notes.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestReset, "reset", true, "Clear the index before ingesting")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Assistant.IngestPaths(cmd.Context(), args, ingestReset)
	if err != nil {
		if len(report.Files) > 0 && !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "Indexed %d file(s) before the failure\n", len(report.Files))
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if structured() {
		return writeStructured(cmd.OutOrStdout(), report)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SOURCE\tCHUNKS\n")
	fmt.Fprintf(w, "------\t------\n")
	for _, f := range report.Files {
		fmt.Fprintf(w, "%s\t%d\n", f.Source, f.Chunks)
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\nIngestion complete. Total chunks indexed: %d (%s)\n", report.TotalChunks, seconds(report.Elapsed))
	return nil
}
