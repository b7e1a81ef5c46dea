package alembic

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

// maxDescription caps descriptions at a width diagram labels can hold.
const maxDescription = 60

// Migration files declare their identifiers as module-level assignments,
// with or without type annotations:
//
//	revision = "3ad2e1f8c6b1"
//	revision: str = "3ad2e1f8c6b1"
//	down_revision: Union[str, None] = None
//	down_revision = ("a1b2", "c3d4")
var (
	revisionRe     = regexp.MustCompile(`revision\s*(?::\s*\w+\s*)?=\s*['"]([^'"]+)['"]`)
	downRevisionRe = regexp.MustCompile(`down_revision\s*(?::\s*[^=]+)?\s*=\s*(.+?)(?:\n|$)`)
	branchLabelsRe = regexp.MustCompile(`branch_labels\s*(?::\s*[^=]+)?\s*=\s*(.+?)(?:\n|$)`)
	quotedRe       = regexp.MustCompile(`['"]([^'"]+)['"]`)
	docstringRe    = regexp.MustCompile(`(?s)"""(.+?)"""`)

	// filenameRe recovers the revision from names like 3ad2e1f8c6b1_create_users.py
	// when the file content declares none.
	filenameRe = regexp.MustCompile(`^([a-f0-9_]+)_.*\.py$`)
)

// ErrNoRevision is returned by Parse when neither the file content nor the
// file name yields a revision identifier.
var ErrNoRevision = errors.New(errors.ErrCodeNoRevision, "no revision identifier found")

// Parse extracts migration metadata from the content of one file. filename is
// the bare file name; it serves as the revision fallback and is recorded as
// the Source of the returned record. Parse reads nothing from disk and keeps
// no state between calls.
func Parse(content []byte, filename string) (*Record, error) {
	text := string(content)

	revision := ""
	if m := revisionRe.FindStringSubmatch(text); m != nil {
		revision = m[1]
	} else if m := filenameRe.FindStringSubmatch(filename); m != nil {
		revision = m[1]
	}
	if revision == "" {
		return nil, ErrNoRevision
	}

	rec := &Record{
		Revision: revision,
		Source:   filename,
	}

	// down_revision may be None, a quoted string, or a tuple for merge points.
	// The value is captured to the end of the assignment line only.
	if m := downRevisionRe.FindStringSubmatch(text); m != nil {
		rhs := strings.TrimSpace(m[1])
		if rhs != "None" {
			if strings.HasPrefix(rhs, "(") {
				for _, q := range quotedRe.FindAllStringSubmatch(rhs, -1) {
					rec.Parents = append(rec.Parents, q[1])
				}
			} else if q := quotedRe.FindStringSubmatch(rhs); q != nil {
				rec.Parents = append(rec.Parents, q[1])
			}
		}
	}

	if m := branchLabelsRe.FindStringSubmatch(text); m != nil {
		rhs := strings.TrimSpace(m[1])
		if rhs != "None" {
			for _, q := range quotedRe.FindAllStringSubmatch(rhs, -1) {
				rec.BranchLabels = append(rec.BranchLabels, q[1])
			}
		}
	}

	if m := docstringRe.FindStringSubmatch(text); m != nil {
		desc := strings.TrimSpace(m[1])
		if i := strings.IndexByte(desc, '\n'); i >= 0 {
			desc = desc[:i]
		}
		rec.Description = truncate(desc, maxDescription)
	}

	return rec, nil
}

// ParseFile reads path and parses it as a migration file.
func ParseFile(path string) (*Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return Parse(content, filepath.Base(path))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
