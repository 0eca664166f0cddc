// Package table renders symbol listings as text tables.
package table

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// getTerminalSize returns the terminal width and height
func getTerminalSize() (width, height int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 120, 30
}

// TableStyle defines the visual styling for tables
type TableStyle struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator string
}

// PlainTableStyle returns a table style with no colors
func PlainTableStyle() TableStyle {
	return TableStyle{
		Header:    lipgloss.NewStyle().Bold(true).PaddingLeft(1).PaddingRight(1),
		Cell:      lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1),
		Separator: "|",
	}
}

// StyledTableStyle returns a colorful table style
func StyledTableStyle() TableStyle {
	return TableStyle{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1),
		Cell:      lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1),
		Separator: "|",
	}
}

// Table is a simple table renderer using lipgloss
type Table struct {
	headers   []string
	rows      [][]string
	style     TableStyle
	alignment []lipgloss.Position
}

// NewTable creates a new table, styled when colored is set
func NewTable(colored bool) *Table {
	style := PlainTableStyle()
	if colored {
		style = StyledTableStyle()
	}
	return &Table{style: style}
}

// SetHeaders sets the table headers
func (t *Table) SetHeaders(headers ...string) {
	t.headers = headers
	if len(t.alignment) < len(headers) {
		align := make([]lipgloss.Position, len(headers))
		copy(align, t.alignment)
		for i := len(t.alignment); i < len(align); i++ {
			align[i] = lipgloss.Left
		}
		t.alignment = align
	}
}

// AlignRight right-aligns the given columns, e.g. numeric ones
func (t *Table) AlignRight(columns ...int) {
	for _, c := range columns {
		if c >= 0 && c < len(t.alignment) {
			t.alignment[c] = lipgloss.Right
		}
	}
}

// AppendRow adds a single row to the table
func (t *Table) AppendRow(row ...string) {
	t.rows = append(t.rows, row)
}

// AppendBulk adds multiple rows to the table
func (t *Table) AppendBulk(rows [][]string) {
	t.rows = append(t.rows, rows...)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2 // padding
	}
	return widths
}

func (t *Table) renderRow(row []string, widths []int, style lipgloss.Style) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = style.Width(width).Align(t.alignment[i]).Render(cell)
	}
	return strings.Join(cells, t.style.Separator)
}

// Render generates the complete table as a string
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := t.columnWidths()

	var sb strings.Builder
	sb.WriteString(t.renderRow(t.headers, widths, t.style.Header))
	sb.WriteString("\n")

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	sb.WriteString(strings.Join(seps, "+"))
	sb.WriteString("\n")

	for _, row := range t.rows {
		sb.WriteString(t.renderRow(row, widths, t.style.Cell))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
