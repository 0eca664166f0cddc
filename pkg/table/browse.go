package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minColumnWidth = 8
	maxColumnWidth = 40
)

// Browser is an interactive, filterable table of rows.
type Browser struct {
	title    string
	table    table.Model
	columns  []table.Column
	rows     [][]string
	filtered [][]string
	filter   string
	editing  bool
}

// NewBrowser creates an interactive table sized to the terminal.
func NewBrowser(title string, headers []string, rows [][]string) *Browser {
	_, termHeight := getTerminalSize()

	columns := make([]table.Column, len(headers))
	for i, header := range headers {
		width := lipgloss.Width(header)
		for _, row := range rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		columns[i] = table.Column{Title: header, Width: min(max(width, minColumnWidth), maxColumnWidth)}
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))

	// title, filter line and help take 7 lines
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(termHeight-7, 5)),
	)
	t.SetStyles(styles)

	b := &Browser{
		title:   title,
		table:   t,
		columns: columns,
		rows:    rows,
	}
	b.apply()
	return b
}

// Filter returns the active filter text.
func (b *Browser) Filter() string {
	return b.filter
}

// Visible returns the rows matching the active filter.
func (b *Browser) Visible() [][]string {
	return b.filtered
}

// SetFilter keeps the rows with a cell containing text, case-insensitively.
func (b *Browser) SetFilter(text string) {
	b.filter = text
	b.apply()
}

func (b *Browser) apply() {
	if b.filter == "" {
		b.filtered = b.rows
	} else {
		needle := strings.ToLower(b.filter)
		b.filtered = nil
		for _, row := range b.rows {
			for _, cell := range row {
				if strings.Contains(strings.ToLower(cell), needle) {
					b.filtered = append(b.filtered, row)
					break
				}
			}
		}
	}
	rows := make([]table.Row, len(b.filtered))
	for i, row := range b.filtered {
		rows[i] = table.Row(row)
	}
	b.table.SetRows(rows)
}

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}
	if b.editing {
		switch key.String() {
		case "ctrl+c":
			return b, tea.Quit
		case "enter":
			b.editing = false
		case "esc":
			b.editing = false
			b.SetFilter("")
		case "backspace":
			if len(b.filter) > 0 {
				r := []rune(b.filter)
				b.SetFilter(string(r[:len(r)-1]))
			}
		default:
			if key.Type == tea.KeyRunes {
				b.SetFilter(b.filter + string(key.Runes))
			}
		}
		return b, nil
	}
	switch key.String() {
	case "ctrl+c", "q":
		return b, tea.Quit
	case "esc":
		b.SetFilter("")
	case "/":
		b.editing = true
	default:
		var cmd tea.Cmd
		b.table, cmd = b.table.Update(msg)
		return b, cmd
	}
	return b, nil
}

func (b *Browser) View() string {
	var sb strings.Builder

	title := b.title
	if b.filter != "" {
		title += fmt.Sprintf(" (filtered: %d/%d)", len(b.filtered), len(b.rows))
	}
	sb.WriteString(title + "\n\n")
	sb.WriteString(b.table.View())
	sb.WriteString("\n")

	if b.editing {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
		sb.WriteString("\n" + style.Render("Filter: /"+b.filter+"█") + "\n")
	} else if b.filter != "" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
		sb.WriteString("\n" + style.Render("Active filter: "+b.filter+" (press esc to clear)") + "\n")
	}

	help := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if b.editing {
		sb.WriteString(help.Render("enter: apply filter • esc: cancel • backspace: delete • ctrl+c: quit"))
	} else {
		sb.WriteString(help.Render("↑/↓: navigate • /: filter • esc: clear filter • q/ctrl+c: quit"))
	}
	return sb.String()
}

// Run shows the browser until the user quits.
func (b *Browser) Run() error {
	_, err := tea.NewProgram(b, tea.WithAltScreen()).Run()
	return err
}
