package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/brunolnetto/barmaid/pkg/alembic"
	apperrors "github.com/brunolnetto/barmaid/pkg/errors"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Command
// =============================================================================

// historyOpts holds the command-line flags for the history command.
type historyOpts struct {
	path    string
	pattern string
	plain   bool
}

// historyCommand creates the history command, an interactive table of
// migration records.
func (c *CLI) historyCommand() *cobra.Command {
	opts := &historyOpts{}

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Browse migration records in an interactive table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.path = args[0]
			}
			return c.runHistory(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.pattern, "pattern", alembic.DefaultPattern, "glob for migration files within the directory")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print the table once instead of browsing")

	return cmd
}

// runHistory scans the directory and opens the interactive browser, or
// prints the table once with --plain (useful in scripts and CI logs).
func (c *CLI) runHistory(ctx context.Context, stdout io.Writer, opts *historyOpts) error {
	logger := loggerFromContext(ctx)

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

	m := newHistoryModel(result.Records)
	if opts.plain {
		fmt.Fprintln(stdout, historyTable(result.Records, m.missing))
		return nil
	}

	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "history browser")
	}
	return nil
}

// =============================================================================
// historyModel - Interactive record browsing
// =============================================================================

// historyModel is the bubbletea model for browsing migration records.
type historyModel struct {
	records []alembic.Record
	missing map[string]bool
	cursor  int
	height  int
	offset  int
}

// newHistoryModel creates a history model over records, precomputing which
// parent revisions are missing.
func newHistoryModel(records []alembic.Record) historyModel {
	missing := make(map[string]bool)
	for _, id := range alembic.Orphans(records) {
		missing[id] = true
	}
	return historyModel{
		records: records,
		missing: missing,
		height:  15,
	}
}

func (m historyModel) Init() tea.Cmd {
	return nil
}

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m historyModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Migration History"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.records) {
		end = len(m.records)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, historyRow(m.records[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Revision", "Parents", "Labels", "Description", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.offset + row
			if actualIdx >= len(m.records) {
				return lipgloss.NewStyle()
			}
			broken := brokenRecord(m.records[actualIdx], m.missing)
			isCurrent := actualIdx == m.cursor

			switch {
			case isCurrent && broken:
				return StyleError.Bold(true)
			case isCurrent:
				return listSelectedStyle
			case broken:
				return StyleError
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	footer := fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.records))
	if n := len(m.missing); n > 0 {
		footer += fmt.Sprintf("  ·  %d missing", n)
	}
	b.WriteString(listDimStyle.Render(footer))

	return b.String()
}

// =============================================================================
// Table Helpers
// =============================================================================

// historyRow renders one record as table cells.
func historyRow(rec alembic.Record) []string {
	parents := "—"
	if len(rec.Parents) > 0 {
		parents = strings.Join(rec.Parents, ", ")
	}
	labels := "—"
	if len(rec.BranchLabels) > 0 {
		labels = strings.Join(rec.BranchLabels, ", ")
	}
	return []string{rec.Revision, parents, labels, rec.Description, rec.Source}
}

// brokenRecord reports whether rec references a parent that is not present.
func brokenRecord(rec alembic.Record, missing map[string]bool) bool {
	for _, p := range rec.Parents {
		if missing[p] {
			return true
		}
	}
	return false
}

// historyTable renders every record as a bordered table, no interactivity.
func historyTable(records []alembic.Record, missing map[string]bool) string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = historyRow(rec)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Revision", "Parents", "Labels", "Description", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(records) && brokenRecord(records[row], missing) {
				return StyleError
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}
