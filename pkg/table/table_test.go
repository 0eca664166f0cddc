package table

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tbl := NewTable(false)
	assert.Empty(t, tbl.Render())

	tbl.SetHeaders("Region", "Size")
	tbl.AlignRight(1)
	tbl.AppendRow("ilm", "16")
	tbl.AppendBulk([][]string{{"ext_memory1", "2048"}})
	require.Equal(t, 2, tbl.Len())

	lines := strings.Split(tbl.Render(), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Region")
	assert.Equal(t, "-------------+------", lines[1])
	assert.Contains(t, lines[3], "ext_memory1")
	// right aligned cells end in the same column
	assert.Equal(t, strings.Index(lines[3], "2048")+4, strings.Index(lines[2], "16")+2)
}

func TestRender_ShortRow(t *testing.T) {
	tbl := NewTable(false)
	tbl.SetHeaders("a", "b")
	tbl.AppendRow("only")
	assert.Len(t, strings.Split(tbl.Render(), "\n"), 3)
}

func TestBrowser_Filter(t *testing.T) {
	rows := [][]string{
		{"symbol_1", "ilm", "High"},
		{"symbol_2", "ext_memory1", "Low"},
		{"small_symbol_0", "EXT_memory2", "Low"},
	}
	b := NewBrowser("Violations", []string{"Name", "Memory", "Realtime"}, rows)
	assert.Len(t, b.Visible(), 3)

	b.SetFilter("ext")
	assert.Len(t, b.Visible(), 2)
	assert.Contains(t, b.View(), "(filtered: 2/3)")

	b.SetFilter("")
	assert.Len(t, b.Visible(), 3)
}

func TestBrowser_Keys(t *testing.T) {
	b := NewBrowser("Symbols", []string{"Name"}, [][]string{{"alpha"}, {"beta"}})

	b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	for _, r := range "bet" {
		b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, "bet", b.Filter())
	assert.Len(t, b.Visible(), 1)

	b.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "be", b.Filter())

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, b.Filter())

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
