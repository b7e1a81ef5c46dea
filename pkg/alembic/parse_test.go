package alembic

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/brunolnetto/barmaid/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		filename string
		want     Record
	}{
		{
			name: "plain assignments",
			content: `"""create users table

Revision ID: 3ad2e1f8c6b1
Revises: 9c1b4a2d5e7f
"""

revision = '3ad2e1f8c6b1'
down_revision = '9c1b4a2d5e7f'
branch_labels = None
`,
			filename: "3ad2e1f8c6b1_create_users_table.py",
			want: Record{
				Revision:    "3ad2e1f8c6b1",
				Parents:     []string{"9c1b4a2d5e7f"},
				Description: "create users table",
				Source:      "3ad2e1f8c6b1_create_users_table.py",
			},
		},
		{
			name: "annotated assignments",
			content: `"""add email column"""
revision: str = "b2c3d4e5f6a7"
down_revision: Union[str, None] = "a1b2c3d4e5f6"
branch_labels: Union[str, Sequence[str], None] = None
`,
			filename: "b2c3d4e5f6a7_add_email_column.py",
			want: Record{
				Revision:    "b2c3d4e5f6a7",
				Parents:     []string{"a1b2c3d4e5f6"},
				Description: "add email column",
				Source:      "b2c3d4e5f6a7_add_email_column.py",
			},
		},
		{
			name: "root migration has no parents",
			content: `"""initial schema"""
revision = 'a1b2c3d4e5f6'
down_revision = None
`,
			filename: "a1b2c3d4e5f6_initial_schema.py",
			want: Record{
				Revision:    "a1b2c3d4e5f6",
				Description: "initial schema",
				Source:      "a1b2c3d4e5f6_initial_schema.py",
			},
		},
		{
			name: "merge point lists every tuple member in order",
			content: `"""merge billing and auth branches"""
revision = 'f0e1d2c3b4a5'
down_revision = ('b2c3d4e5f6a7', 'c3d4e5f6a7b8')
`,
			filename: "f0e1d2c3b4a5_merge.py",
			want: Record{
				Revision:    "f0e1d2c3b4a5",
				Parents:     []string{"b2c3d4e5f6a7", "c3d4e5f6a7b8"},
				Description: "merge billing and auth branches",
				Source:      "f0e1d2c3b4a5_merge.py",
			},
		},
		{
			name: "branch labels",
			content: `"""start billing branch"""
revision = 'd4e5f6a7b8c9'
down_revision = 'a1b2c3d4e5f6'
branch_labels = ('billing',)
`,
			filename: "d4e5f6a7b8c9_start_billing.py",
			want: Record{
				Revision:     "d4e5f6a7b8c9",
				Parents:      []string{"a1b2c3d4e5f6"},
				BranchLabels: []string{"billing"},
				Description:  "start billing branch",
				Source:       "d4e5f6a7b8c9_start_billing.py",
			},
		},
		{
			name:     "revision from filename when content has none",
			content:  "# hand-written migration, no assignments\n",
			filename: "1234567890ab_init.py",
			want: Record{
				Revision: "1234567890ab",
				Source:   "1234567890ab_init.py",
			},
		},
		{
			name: "missing down_revision line means no parents",
			content: `"""bootstrap"""
revision = 'deadbeef0001'
`,
			filename: "deadbeef0001_bootstrap.py",
			want: Record{
				Revision:    "deadbeef0001",
				Description: "bootstrap",
				Source:      "deadbeef0001_bootstrap.py",
			},
		},
		{
			name: "multiline tuple keeps only first-line members",
			content: `revision = 'aabbccddeeff'
down_revision = ('a1b2c3d4e5f6',
    'b2c3d4e5f6a7')
`,
			filename: "aabbccddeeff_merge.py",
			want: Record{
				Revision: "aabbccddeeff",
				Parents:  []string{"a1b2c3d4e5f6"},
				Source:   "aabbccddeeff_merge.py",
			},
		},
		{
			name: "docstring keeps first line only",
			content: `"""add index on users.email

This speeds up login lookups considerably.
"""
revision = 'c0ffee000001'
down_revision = None
`,
			filename: "c0ffee000001_add_index.py",
			want: Record{
				Revision:    "c0ffee000001",
				Description: "add index on users.email",
				Source:      "c0ffee000001_add_index.py",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.content), tt.filename)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestParse_NoRevision(t *testing.T) {
	content := `"""not a migration"""
x = 1
`
	_, err := Parse([]byte(content), "notes.py")
	if err == nil {
		t.Fatal("Parse should fail without a revision identifier")
	}
	if !errors.Is(err, errors.ErrCodeNoRevision) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeNoRevision)
	}
}

func TestParse_DownRevisionOnly(t *testing.T) {
	// The revision pattern is unanchored: in a file with no revision
	// assignment of its own, the down_revision line supplies both fields.
	content := `"""not a migration"""
down_revision = 'a1b2c3d4e5f6'
`
	got, err := Parse([]byte(content), "notes.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Record{
		Revision:    "a1b2c3d4e5f6",
		Parents:     []string{"a1b2c3d4e5f6"},
		Description: "not a migration",
		Source:      "notes.py",
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("Parse() = %+v, want %+v", *got, want)
	}
}

func TestParse_LongDescription(t *testing.T) {
	long := strings.Repeat("x", 100)
	content := `"""` + long + `"""
revision = 'deadbeef0002'
`
	got, err := Parse([]byte(content), "deadbeef0002_long.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len([]rune(got.Description)) != 60 {
		t.Errorf("Description length = %d runes, want 60", len([]rune(got.Description)))
	}
	if got.Description != strings.Repeat("x", 60) {
		t.Errorf("Description = %q, want first 60 characters", got.Description)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "3ad2e1f8c6b1_create.py")
	content := `"""create"""
revision = '3ad2e1f8c6b1'
down_revision = None
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rec, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if rec.Revision != "3ad2e1f8c6b1" {
		t.Errorf("Revision = %q, want %q", rec.Revision, "3ad2e1f8c6b1")
	}
	if rec.Source != "3ad2e1f8c6b1_create.py" {
		t.Errorf("Source = %q, want bare file name", rec.Source)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.py"))
	if err == nil {
		t.Fatal("ParseFile should fail on a missing file")
	}
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidPath)
	}
}

func TestOrphans(t *testing.T) {
	records := []Record{
		{Revision: "ccc", Parents: []string{"zzz"}},
		{Revision: "aaa", Parents: []string{"yyy", "ccc"}},
		{Revision: "bbb", Parents: []string{"aaa"}},
	}

	got := Orphans(records)
	want := []string{"yyy", "zzz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Orphans() = %v, want %v", got, want)
	}
}

func TestOrphans_None(t *testing.T) {
	records := []Record{
		{Revision: "aaa"},
		{Revision: "bbb", Parents: []string{"aaa"}},
	}
	if got := Orphans(records); len(got) != 0 {
		t.Errorf("Orphans() = %v, want none", got)
	}
}
