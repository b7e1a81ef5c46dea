package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/brunolnetto/barmaid/pkg/alembic"
	"github.com/brunolnetto/barmaid/pkg/dot"
	apperrors "github.com/brunolnetto/barmaid/pkg/errors"
	"github.com/brunolnetto/barmaid/pkg/mermaid"
)

const (
	formatDOT = "dot" // Graphviz source text
	formatSVG = "svg" // vector output
	formatPNG = "png" // raster output
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	diagramOptions
	format string // output format: "dot", "svg", or "png"
}

// renderCommand creates the render command for Graphviz output.
//
// Unlike the root command, render always writes a file: SVG and PNG are
// binary-ish payloads nobody wants on a terminal.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Render the migration graph to DOT, SVG, or PNG via Graphviz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.path = args[0]
			}
			return c.runRender(cmd.Context(), opts)
		},
	}

	addDiagramFlags(cmd, &opts.diagramOptions)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from the directory name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: dot, svg, or png")

	return cmd
}

// validateFormat checks that the requested format is supported.
func validateFormat(f string) error {
	switch f {
	case formatDOT, formatSVG, formatPNG:
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidFormat, "invalid format %q (must be 'dot', 'svg', or 'png')", f)
}

// renderOutputPath derives the output file from the scanned directory when no
// explicit --output is given: alembic/versions becomes versions.svg.
func renderOutputPath(output, dir, format string) string {
	if output != "" {
		return output
	}
	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == string(filepath.Separator) {
		base = "migrations"
	}
	return base + "." + format
}

// runRender scans the migrations directory and renders the graph with Graphviz.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	direction, err := mermaid.ParseDirection(opts.direction)
	if err != nil {
		return err
	}
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	dir, err := alembic.Locate(opts.path, alembic.DefaultSearchPaths)
	if err != nil {
		return err
	}
	result, err := alembic.Scan(dir, alembic.ScanOptions{Pattern: opts.pattern, Logger: logger})
	if err != nil {
		return err
	}
	if len(result.Records) == 0 {
		return apperrors.New(apperrors.ErrCodeNoMigrations, "no migrations found in %s", dir)
	}

	graph := dot.ToDOT(result.Records, dot.Options{
		Direction:   direction,
		ShowOrphans: !opts.noOrphans,
	})

	data := []byte(graph)
	if opts.format != formatDOT {
		p := newProgress(logger)
		s := newSpinner(ctx, "Rendering with Graphviz")
		s.Start()
		switch opts.format {
		case formatSVG:
			data, err = dot.RenderSVG(graph)
		case formatPNG:
			data, err = dot.RenderPNG(graph)
		}
		s.Stop()
		if err != nil {
			return err
		}
		p.done(fmt.Sprintf("Rendered %d migrations", len(result.Records)))
	}

	path := renderOutputPath(opts.output, dir, opts.format)
	out, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "cannot create %s", path)
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "write %s", path)
	}

	printSuccess("Rendered migration graph")
	printFile(path)
	summarize(logger, result, false)
	return nil
}
