// Package alembic extracts revision metadata from Alembic migration files.
//
// # Overview
//
// Alembic (the Python schema-migration tool) stores one migration per file in
// a "versions" directory. Each file declares module-level assignments that
// link it into a revision history:
//
//	revision = "3ad2e1f8c6b1"
//	down_revision = "9c1b4a2d5e7f"      # or None, or a tuple for merges
//	branch_labels = ("billing",)
//
// This package reads those declarations by pattern matching on the file text.
// It never imports, executes, or syntactically validates the Python source;
// the assignments are recognized line-wise, with or without type annotations.
//
// # Basic Usage
//
// Parse a single file with [Parse] or [ParseFile], or walk a whole versions
// directory with [Scan]:
//
//	result, err := alembic.Scan(dir, alembic.ScanOptions{})
//	if err != nil {
//	    return err
//	}
//	orphans := alembic.Orphans(result.Records)
//
// [Locate] resolves the versions directory itself, trying an explicit path,
// a pyproject.toml [tool.alembic] entry, and a table of common locations in
// that order.
//
// # Limitations
//
// down_revision and branch_labels values are captured up to the end of their
// assignment line. Tuples wrapped across several lines lose the revisions on
// continuation lines, matching the single-line scope of the extraction.
// Duplicate revision identifiers across files are kept as-is; deduplication
// is left to consumers.
package alembic
