package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/brunolnetto/barmaid/pkg/alembic"
	apperrors "github.com/brunolnetto/barmaid/pkg/errors"
	"github.com/brunolnetto/barmaid/pkg/mermaid"
)

// maxSkippedShown caps how many skipped files the summary lists.
const maxSkippedShown = 5

// =============================================================================
// Options
// =============================================================================

// diagramOptions holds the flags shared by every command that scans a
// migrations directory.
type diagramOptions struct {
	path      string
	output    string
	direction string
	noOrphans bool
	pattern   string
}

// addDiagramFlags registers the scan and layout flags on cmd. Output flags
// differ per command, so callers register those themselves.
func addDiagramFlags(cmd *cobra.Command, opts *diagramOptions) {
	cmd.Flags().StringVarP(&opts.direction, "direction", "d", string(mermaid.TopDown), "graph direction: TD, LR, BT, or RL")
	cmd.Flags().BoolVar(&opts.noOrphans, "no-orphans", false, "hide placeholders for missing parent revisions")
	cmd.Flags().StringVar(&opts.pattern, "pattern", alembic.DefaultPattern, "glob for migration files within the directory")
}

// =============================================================================
// Root Operation
// =============================================================================

// runDiagram is the root operation: locate, scan, generate, write.
// The diagram goes to stdout unless --output names a file; everything else
// goes to stderr.
func (c *CLI) runDiagram(ctx context.Context, stdout io.Writer, opts *diagramOptions) error {
	logger := loggerFromContext(ctx)

	direction, err := mermaid.ParseDirection(opts.direction)
	if err != nil {
		return err
	}

	dir, err := alembic.Locate(opts.path, alembic.DefaultSearchPaths)
	if err != nil {
		return err
	}
	logger.Debug("scanning migrations", "dir", dir, "pattern", opts.pattern)

	result, err := alembic.Scan(dir, alembic.ScanOptions{Pattern: opts.pattern, Logger: logger})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return apperrors.New(apperrors.ErrCodeNoMigrations, "no migrations found in %s", dir)
	}

	diagram := mermaid.Generate(result.Records, mermaid.Options{
		Direction:   direction,
		ShowOrphans: !opts.noOrphans,
	})

	out, err := openOutput(opts.output, stdout)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "cannot create %s", opts.output)
	}
	defer out.Close()
	// A file holds the diagram bytes exactly; terminal output gets a
	// trailing newline.
	if opts.output == "" {
		diagram += "\n"
	}
	if _, err := fmt.Fprint(out, diagram); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "write diagram")
	}

	if opts.output != "" {
		printSuccess("Diagram saved to %s", opts.output)
		printNextStep("Preview it live", appName+" serve")
	}
	summarize(logger, result, opts.output == "")
	return nil
}

// =============================================================================
// Summary
// =============================================================================

// summarize reports scan statistics to stderr. The block appears when
// debugging, when parent revisions are missing, or when the diagram went to
// stdout; saving to a file on a clean scan stays quiet.
func summarize(logger *log.Logger, result *alembic.ScanResult, toStdout bool) {
	missing := alembic.Orphans(result.Records)
	if logger.GetLevel() > log.DebugLevel && len(missing) == 0 && !toStdout {
		return
	}

	edges := 0
	for _, rec := range result.Records {
		edges += len(rec.Parents)
	}
	printStats(len(result.Records), edges, len(missing))

	if len(result.Skipped) > 0 {
		printWarning("Skipped %d files without a revision", len(result.Skipped))
		for i, name := range result.Skipped {
			if i == maxSkippedShown {
				printDetail("... and %d more", len(result.Skipped)-maxSkippedShown)
				break
			}
			printDetail("%s", name)
		}
	}
	if len(missing) > 0 {
		printWarning("Missing %d parent revisions", len(missing))
		for _, id := range missing {
			printDetail("%s", id)
		}
	}
}

// =============================================================================
// Output
// =============================================================================

// nopCloser wraps an io.Writer with a no-op Close method.
// It keeps stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
