// ABOUTME: Root command and global flags for the docqa CLI
// ABOUTME: Wires subcommands and resolves logging and output format for them
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/logging"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██████╗  ██████╗  ██████╗ ██████╗  █████╗
 ██╔══██╗██╔═══██╗██╔════╝██╔═══██╗██╔══██╗
 ██║  ██║██║   ██║██║     ██║   ██║███████║
 ██║  ██║██║   ██║██║     ██║▄▄ ██║██╔══██║
 ██████╔╝╚██████╔╝╚██████╗╚██████╔╝██║  ██║
 ╚═════╝  ╚═════╝  ╚═════╝ ╚══▀▀═╝ ╚═╝  ╚═╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about your documents",
		Long: banner + `

Ask questions about your own PDF, text and markdown files.

docqa splits documents into overlapping chunks, indexes them in a
persisted vector collection, and answers questions strictly from the
most relevant chunks. Every answer lists the chunks it was built from.
Without OPENAI_API_KEY the answer is a list of the best excerpts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case formatText, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown --format %q (want text, json or yaml)", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", formatText, "Output format: text, json or yaml")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewIngestCmd(),
		NewAskCmd(),
		NewQueryCmd(),
		NewResetCmd(),
		NewSourcesCmd(),
		NewMCPCmd(),
		NewSyncCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger builds the stderr logger honoring --verbose and --quiet
func newLogger(level string) *log.Logger {
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	return logging.New(level, os.Stderr)
}
