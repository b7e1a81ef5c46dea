// Package pkg provides the core libraries for barmaid migration visualization.
//
// # Overview
//
// barmaid turns a directory of Alembic migration files into revision-history
// diagrams. The pkg directory is organized into three main areas:
//
//  1. [alembic] - Domain logic (migration parsing, directory scanning, discovery)
//  2. [mermaid], [dot] - Diagram builders (Mermaid flowcharts, Graphviz export)
//  3. [logo], [errors], [buildinfo] - Supporting utilities
//
// # Architecture
//
// The typical data flow through barmaid:
//
//	Alembic versions directory
//	         ↓
//	    [alembic] package (locate + scan + parse)
//	         ↓
//	    []alembic.Record (revision, parents, labels, description)
//	         ↓
//	    [mermaid] or [dot] package (diagram markup)
//	         ↓
//	    Mermaid text / DOT / SVG / PNG output
//
// # Quick Start
//
// Scan a migrations directory and build a Mermaid flowchart:
//
//	import (
//	    "github.com/brunolnetto/barmaid/pkg/alembic"
//	    "github.com/brunolnetto/barmaid/pkg/mermaid"
//	)
//
//	// 1. Find and scan the versions directory
//	dir, _ := alembic.Locate("", alembic.DefaultSearchPaths)
//	result, _ := alembic.Scan(dir, alembic.ScanOptions{})
//
//	// 2. Render the revision graph
//	diagram := mermaid.Generate(result.Records, mermaid.Options{
//	    Direction:   mermaid.LeftToRight,
//	    ShowOrphans: true,
//	})
//
// # Main Packages
//
// [alembic] - Extracts revision metadata (revision, down_revision,
// branch_labels, docstring) from migration files by pattern matching, without
// executing any Python. Scan walks a directory in lexical order and absorbs
// per-file failures; Locate discovers the versions directory via explicit
// path, pyproject.toml, or a search-path table.
//
// [mermaid] - Deterministic Mermaid flowchart builder. One node per record,
// one edge per parent link, placeholder nodes for revisions that are
// referenced but missing.
//
// [dot] - The same revision graph as Graphviz DOT, plus in-process SVG and
// PNG rendering via goccy/go-graphviz.
//
// [logo] - Standalone image filter for project logos: strips a near-white
// background, recolors the remaining pixels, crops, and fits to a bounding
// box. Shares no types with the migration pipeline.
//
// [errors] - Structured errors with stable codes, used for exit-code mapping
// and user-facing messages.
//
// [buildinfo] - Version, commit, and build date injected via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/alembic/...   # Specific package
//
// [alembic]: https://pkg.go.dev/github.com/brunolnetto/barmaid/pkg/alembic
// [mermaid]: https://pkg.go.dev/github.com/brunolnetto/barmaid/pkg/mermaid
// [dot]: https://pkg.go.dev/github.com/brunolnetto/barmaid/pkg/dot
// [logo]: https://pkg.go.dev/github.com/brunolnetto/barmaid/pkg/logo
// [errors]: https://pkg.go.dev/github.com/brunolnetto/barmaid/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/brunolnetto/barmaid/pkg/buildinfo
package pkg
