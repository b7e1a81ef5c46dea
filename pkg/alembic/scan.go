package alembic

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

// DefaultPattern matches the migration files Alembic writes into a versions
// directory.
const DefaultPattern = "*.py"

// ScanOptions control how a versions directory is scanned.
type ScanOptions struct {
	// Pattern is a glob matched against paths relative to the scanned
	// directory. Recursive patterns such as "**/*.py" are supported.
	// Defaults to DefaultPattern.
	Pattern string

	// Logger receives per-file diagnostics. Defaults to a discarding logger.
	Logger *log.Logger
}

func (o *ScanOptions) setDefaults() {
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ScanResult is the outcome of scanning a versions directory.
type ScanResult struct {
	// Records holds one entry per successfully parsed file, in lexical
	// file-name order.
	Records []Record

	// Skipped lists the files that matched the pattern but produced no
	// record, in the order they were visited.
	Skipped []string
}

// Scan parses every file under dir matching opts.Pattern. Files that cannot
// be read or that contain no revision identifier are skipped with a
// diagnostic and never abort the scan. __init__.py files are always ignored.
func Scan(dir string, opts ScanOptions) (*ScanResult, error) {
	opts.setDefaults()

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirNotFound, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeNotADirectory, "%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), opts.Pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "invalid pattern %q", opts.Pattern)
	}
	sort.Strings(matches)

	result := &ScanResult{}
	for _, rel := range matches {
		name := filepath.Base(rel)
		if name == "__init__.py" {
			continue
		}
		rec, err := ParseFile(filepath.Join(dir, rel))
		switch {
		case errors.Is(err, errors.ErrCodeNoRevision):
			opts.Logger.Debug("no revision found", "file", rel)
			result.Skipped = append(result.Skipped, rel)
		case err != nil:
			opts.Logger.Warn("could not parse migration", "file", rel, "error", errors.UserMessage(err))
			result.Skipped = append(result.Skipped, rel)
		default:
			opts.Logger.Debug("parsed migration", "file", rel, "revision", rec.Revision)
			result.Records = append(result.Records, *rec)
		}
	}
	return result, nil
}
