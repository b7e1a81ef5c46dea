// Package cli implements the barmaid command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/brunolnetto/barmaid/pkg/buildinfo"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "barmaid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Root Command
// =============================================================================

// RootCommand creates the root cobra command with all subcommands registered.
//
// The root command runs the diagram operation itself, so a bare
// `barmaid [path]` prints Mermaid text to stdout. Diagnostics go to stderr;
// stdout carries nothing but the diagram.
func (c *CLI) RootCommand() *cobra.Command {
	opts := &diagramOptions{}

	root := &cobra.Command{
		Use:   appName + " [path]",
		Short: "barmaid turns Alembic migration histories into Mermaid diagrams",
		Long: `barmaid scans a directory of Alembic migration files, follows their
revision/down_revision links, and prints the history as a Mermaid flowchart.
Parent revisions that are referenced but missing from the directory show up
as red placeholder nodes.

With no path, common locations (alembic/versions, versions, ...) and the
pyproject.toml [tool.alembic] script_location are tried in order.`,
		Args:         cobra.MaximumNArgs(1),
		Version:      buildinfo.Version,
		SilenceUsage: true,
		// Errors reach the user exactly once, printed by main.
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.path = args[0]
			}
			return c.runDiagram(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.Flags().BoolP("version", "v", false, "version for "+appName)
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	addDiagramFlags(root, opts)
	root.Flags().StringVarP(&opts.output, "output", "o", "", "save the diagram to a file instead of stdout")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.logoCommand())
	root.AddCommand(c.completionCommand())

	return root
}
