// ABOUTME: CLI command to answer a question from indexed documents
// ABOUTME: Prints the grounded answer, timings, and the source chunks used
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// errNothingIndexed is returned when asking before any document was ingested
var errNothingIndexed = errors.New("no documents indexed, run 'docqa ingest' first")

// NewAskCmd creates ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the indexed documents",
		Long: `Answer a question using only the indexed documents.

The most relevant chunks are retrieved and handed to the chat model
with instructions to answer only from them. Without a chat model, or
when it fails, the answer lists the best excerpts instead.

Examples:
  docqa ask "What is the refund window?"
  docqa ask --format json "Who signs off on expenses?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if strings.TrimSpace(question) != "" {
		sources, err := a.Assistant.Sources(ctx)
		if err != nil {
			return fmt.Errorf("listing sources: %w", err)
		}
		if len(sources) == 0 {
			return errNothingIndexed
		}
	}

	res, err := a.Assistant.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if structured() {
		return writeStructured(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", res.Answer)
	if strings.TrimSpace(question) == "" {
		return nil
	}

	if !quiet {
		fmt.Fprintf(out, "\nRetrieval: %s | Answer: %s\n", seconds(res.Retrieval), seconds(res.Latency))
		fmt.Fprintf(out, "Inference time: %s\n", seconds(res.Total))
	}

	fmt.Fprintf(out, "\nSources:\n")
	if len(res.Hits) == 0 {
		fmt.Fprintf(out, "  No sources retrieved.\n")
		return nil
	}
	for _, hit := range res.Hits {
		fmt.Fprintf(out, "- %s | chunk %d | score %.3f\n", hit.Chunk.Source, hit.Chunk.ChunkID, hit.Score)
		fmt.Fprintf(out, "  %s...\n", snippet(hit.Chunk.Text, sourceSnippetChars))
	}
	return nil
}
