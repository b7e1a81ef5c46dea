package alembic

import "sort"

// Record holds the metadata extracted from a single migration file.
type Record struct {
	Revision     string   // revision identifier (never empty)
	Parents      []string // down revisions, in order of appearance
	BranchLabels []string // branch labels, if declared
	Description  string   // first docstring line, at most 60 characters
	Source       string   // name of the file the record came from
}

// Revisions returns the set of revision identifiers present in records.
func Revisions(records []Record) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, rec := range records {
		set[rec.Revision] = true
	}
	return set
}

// Orphans returns the parent revisions referenced by records but not present
// among them, sorted lexicographically. Orphans usually point at migration
// files that were deleted or squashed after their children were written.
func Orphans(records []Record) []string {
	known := Revisions(records)
	seen := make(map[string]bool)
	var orphans []string
	for _, rec := range records {
		for _, parent := range rec.Parents {
			if !known[parent] && !seen[parent] {
				seen[parent] = true
				orphans = append(orphans, parent)
			}
		}
	}
	sort.Strings(orphans)
	return orphans
}
