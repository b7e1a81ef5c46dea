package alembic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "__init__.py", "")
	writeMigration(t, dir, "b_second.py", `"""second"""
revision = 'bbbbbbbbbbbb'
down_revision = 'aaaaaaaaaaaa'
`)
	writeMigration(t, dir, "a_first.py", `"""first"""
revision = 'aaaaaaaaaaaa'
down_revision = None
`)
	writeMigration(t, dir, "notes.py", "# scratch notes, not a migration\n")

	result, err := Scan(dir, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if got := len(result.Records); got != 2 {
		t.Fatalf("len(Records) = %d, want 2", got)
	}

	// Lexical file-name order, independent of write order.
	if result.Records[0].Revision != "aaaaaaaaaaaa" {
		t.Errorf("Records[0].Revision = %q, want %q", result.Records[0].Revision, "aaaaaaaaaaaa")
	}
	if result.Records[1].Revision != "bbbbbbbbbbbb" {
		t.Errorf("Records[1].Revision = %q, want %q", result.Records[1].Revision, "bbbbbbbbbbbb")
	}

	if len(result.Skipped) != 1 || result.Skipped[0] != "notes.py" {
		t.Errorf("Skipped = %v, want [notes.py]", result.Skipped)
	}
}

func TestScan_RecursivePattern(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "archived")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeMigration(t, dir, "a_first.py", `revision = 'aaaaaaaaaaaa'
down_revision = None
`)
	writeMigration(t, sub, "b_second.py", `revision = 'bbbbbbbbbbbb'
down_revision = 'aaaaaaaaaaaa'
`)

	result, err := Scan(dir, ScanOptions{Pattern: "**/*.py"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got := len(result.Records); got != 2 {
		t.Fatalf("len(Records) = %d, want 2", got)
	}

	// The default pattern stays shallow.
	result, err = Scan(dir, ScanOptions{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got := len(result.Records); got != 1 {
		t.Errorf("len(Records) = %d with default pattern, want 1", got)
	}
}

func TestScan_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		dir  string
		opts ScanOptions
		code errors.Code
	}{
		{
			name: "missing directory",
			dir:  filepath.Join(dir, "nope"),
			code: errors.ErrCodeDirNotFound,
		},
		{
			name: "path is a file",
			dir:  file,
			code: errors.ErrCodeNotADirectory,
		},
		{
			name: "malformed pattern",
			dir:  dir,
			opts: ScanOptions{Pattern: "["},
			code: errors.ErrCodeInvalidPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(tt.dir, tt.opts)
			if err == nil {
				t.Fatal("Scan should fail")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %q, want %q", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestScan_EmptyDirectory(t *testing.T) {
	result, err := Scan(t.TempDir(), ScanOptions{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Records) != 0 || len(result.Skipped) != 0 {
		t.Errorf("Scan of empty dir = %+v, want empty result", result)
	}
}
