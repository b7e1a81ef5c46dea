// Package mermaid renders migration records as a Mermaid flowchart.
//
// Output is plain text in the flowchart ("graph") dialect, suitable for
// fenced ```mermaid blocks, the Mermaid live editor, or mermaid.js.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/brunolnetto/barmaid/pkg/alembic"
	"github.com/brunolnetto/barmaid/pkg/errors"
)

// Direction is a flowchart orientation.
type Direction string

// Orientations understood by Mermaid.
const (
	TopDown     Direction = "TD"
	LeftToRight Direction = "LR"
	BottomToTop Direction = "BT"
	RightToLeft Direction = "RL"
)

// Directions lists every valid orientation, in help-text order.
var Directions = []Direction{TopDown, LeftToRight, BottomToTop, RightToLeft}

// ParseDirection validates an orientation given on the command line.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidDirection, "invalid direction %q (choose one of TD, LR, BT, RL)", s)
}

// Options control diagram generation.
type Options struct {
	Direction   Direction // flowchart orientation, TopDown when empty
	ShowOrphans bool      // render missing parent revisions as placeholder nodes
}

const (
	hashLength = 12 // length of a hash-like revision id
	hashPrefix = 8  // displayed prefix of a hash-like revision id
	maxLabel   = 30 // clip width for descriptive revision ids
)

var nodeIDReplacer = strings.NewReplacer("-", "_", ".", "_")

// NodeID turns a revision identifier into a node id both Mermaid and DOT
// accept unquoted. Hyphens and dots are the characters that break ids.
func NodeID(revision string) string {
	return nodeIDReplacer.Replace(revision)
}

// Label renders a revision identifier at display width: hash-like ids
// (exactly twelve lowercase hex characters) shorten to their first eight,
// anything longer than thirty characters is clipped with an ellipsis.
func Label(revision string) string {
	if isHashRevision(revision) {
		return revision[:hashPrefix]
	}
	return Clip(revision)
}

// Clip shortens s to thirty characters plus an ellipsis. Orphan placeholders
// use it directly so a missing revision stays recognizable in full.
func Clip(s string) string {
	runes := []rune(s)
	if len(runes) > maxLabel {
		return string(runes[:maxLabel]) + "..."
	}
	return s
}

func isHashRevision(s string) bool {
	if len(s) != hashLength {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

// Generate renders records as a Mermaid flowchart. The output is
// deterministic: nodes and edges follow record order, orphan placeholders
// are sorted, and identical inputs produce byte-identical text.
//
// Edges point from parent to child. An edge whose parent is neither a known
// record nor a rendered orphan placeholder is omitted so the diagram never
// references an undefined node.
func Generate(records []alembic.Record, opts Options) string {
	if opts.Direction == "" {
		opts.Direction = TopDown
	}

	known := alembic.Revisions(records)
	orphans := alembic.Orphans(records)
	orphanSet := make(map[string]bool, len(orphans))
	for _, o := range orphans {
		orphanSet[o] = true
	}

	lines := []string{fmt.Sprintf("graph %s", opts.Direction)}

	for _, rec := range records {
		label := Label(rec.Revision)
		if rec.Description != "" {
			label += "<br/>" + rec.Description
		}
		if len(rec.BranchLabels) > 0 {
			label += fmt.Sprintf("<br/>[%s]", strings.Join(rec.BranchLabels, ", "))
		}
		lines = append(lines, fmt.Sprintf(`    %s["%s"]`, NodeID(rec.Revision), label))
	}

	if opts.ShowOrphans {
		for _, orphan := range orphans {
			id := NodeID(orphan)
			lines = append(lines,
				fmt.Sprintf(`    %s["%s<br/>(missing)"]`, id, Clip(orphan)),
				fmt.Sprintf("    style %s fill:#ffcccc,stroke:#cc0000,stroke-width:2px,stroke-dasharray: 5 5", id))
		}
	}

	for _, rec := range records {
		child := NodeID(rec.Revision)
		for _, parent := range rec.Parents {
			if known[parent] || (opts.ShowOrphans && orphanSet[parent]) {
				lines = append(lines, fmt.Sprintf("    %s --> %s", NodeID(parent), child))
			}
		}
	}

	lines = append(lines, "", "    classDef default fill:#f9f9f9,stroke:#333,stroke-width:2px")
	return strings.Join(lines, "\n")
}
