// Package dot exports migration histories as Graphviz DOT text and renders
// them to SVG or PNG in-process.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/brunolnetto/barmaid/pkg/alembic"
	"github.com/brunolnetto/barmaid/pkg/errors"
	"github.com/brunolnetto/barmaid/pkg/mermaid"
)

// Options configures DOT generation.
type Options struct {
	Direction   mermaid.Direction // layout orientation, TD when empty
	ShowOrphans bool              // render missing parent revisions as placeholder nodes
}

// rankdir translates a flowchart orientation into its Graphviz name.
// Mermaid's TD and Graphviz's TB describe the same top-to-bottom layout.
func rankdir(d mermaid.Direction) string {
	if d == "" || d == mermaid.TopDown {
		return "TB"
	}
	return string(d)
}

// ToDOT converts migration records to Graphviz DOT. Node identity, label
// shortening, orphan placeholders, and edge rules match the Mermaid builder;
// label line breaks use \n instead of <br/>. Node ids are quoted because
// hash-like revisions start with digits.
func ToDOT(records []alembic.Record, opts Options) string {
	known := alembic.Revisions(records)
	orphans := alembic.Orphans(records)
	orphanSet := make(map[string]bool, len(orphans))
	for _, o := range orphans {
		orphanSet[o] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph migrations {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(opts.Direction))
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#f9f9f9\", color=\"#333333\"];\n")
	buf.WriteString("\n")

	for _, rec := range records {
		label := mermaid.Label(rec.Revision)
		if rec.Description != "" {
			label += "\n" + rec.Description
		}
		if len(rec.BranchLabels) > 0 {
			label += fmt.Sprintf("\n[%s]", strings.Join(rec.BranchLabels, ", "))
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", mermaid.NodeID(rec.Revision), label)
	}

	if opts.ShowOrphans {
		for _, orphan := range orphans {
			label := mermaid.Clip(orphan) + "\n(missing)"
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=\"#ffcccc\", color=\"#cc0000\"];\n",
				mermaid.NodeID(orphan), label)
		}
	}

	buf.WriteString("\n")
	for _, rec := range records {
		child := mermaid.NodeID(rec.Revision)
		for _, parent := range rec.Parents {
			if known[parent] || (opts.ShowOrphans && orphanSet[parent]) {
				fmt.Fprintf(&buf, "  %q -> %q;\n", mermaid.NodeID(parent), child)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
