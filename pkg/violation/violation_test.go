package violation

import (
	"testing"

	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sym(name, region string, rt symtab.Realtime, access int, hw bool) *symtab.Symbol {
	return &symtab.Symbol{
		Name:           name,
		Module:         "module_1",
		PhysicalMemory: region,
		Realtime:       rt,
		AccessCount:    access,
		HWUsage:        hw,
	}
}

func ids(groups []Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Rule.ID)
	}
	return out
}

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name string
		sym  *symtab.Symbol
		want []string
	}{
		{name: "high in external", sym: sym("a", "ext_memory1", symtab.RealtimeHigh, 90, false), want: []string{"R1"}},
		{name: "low in fast", sym: sym("b", "ilm", symtab.RealtimeLow, 10, false), want: []string{"R2"}},
		{name: "hw in external", sym: sym("c", "ext_memory2", symtab.RealtimeMedium, 50, true), want: []string{"R3"}},
		{name: "high rarely accessed", sym: sym("d", "dlm", symtab.RealtimeHigh, 32, false), want: []string{"R4"}},
		{name: "low hot in external", sym: sym("e", "ext_memory1", symtab.RealtimeLow, 67, false), want: []string{"R4"}},
		{name: "boundaries", sym: sym("f", "sysram", symtab.RealtimeHigh, 33, false), want: nil},
		{name: "low at 66", sym: sym("g", "ext_memory1", symtab.RealtimeLow, 66, false), want: nil},
		{name: "medium anywhere", sym: sym("h", "ilm", symtab.RealtimeMedium, 0, true), want: nil},
		{name: "overlap", sym: sym("i", "ext_memory1", symtab.RealtimeHigh, 5, true), want: []string{"R1", "R3", "R4"}},
		{name: "low everywhere", sym: sym("j", "sysram", symtab.RealtimeLow, 100, true), want: []string{"R2", "R4"}},
		{name: "unknown region", sym: sym("k", "tcm", symtab.RealtimeLow, 0, true), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Classify([]*symtab.Symbol{tt.sym})))
		})
	}
}

func TestClassify_OrderAndMembership(t *testing.T) {
	table := []*symtab.Symbol{
		sym("s0", "ext_memory1", symtab.RealtimeHigh, 10, true),
		sym("s1", "ilm", symtab.RealtimeLow, 80, false),
		sym("s2", "dlm", symtab.RealtimeMedium, 50, false),
		sym("s3", "ext_memory2", symtab.RealtimeHigh, 90, false),
	}
	groups := Classify(table)
	require.Equal(t, []string{"R1", "R2", "R3", "R4"}, ids(groups))

	assert.Equal(t, []*symtab.Symbol{table[0], table[3]}, groups[0].Symbols)
	assert.Equal(t, []*symtab.Symbol{table[1]}, groups[1].Symbols)
	assert.Equal(t, []*symtab.Symbol{table[0]}, groups[2].Symbols)
	assert.Equal(t, []*symtab.Symbol{table[0], table[1]}, groups[3].Symbols)
	assert.Same(t, table[0], groups[2].Symbols[0])

	assert.Equal(t, 6, Total(groups))
	assert.Len(t, Flatten(groups), 6)
	assert.Equal(t, "High realtime symbol in slow memory", groups[0].Label())
}

func TestClassify_Deterministic(t *testing.T) {
	table := []*symtab.Symbol{
		sym("s0", "ext_memory1", symtab.RealtimeHigh, 10, true),
		sym("s1", "sysram", symtab.RealtimeLow, 80, false),
	}
	a, b := Classify(table), Classify(table)
	require.Equal(t, ids(a), ids(b))
	for i := range a {
		assert.Equal(t, a[i].Symbols, b[i].Symbols)
	}
}

func TestClassify_Empty(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Empty(t, Classify([]*symtab.Symbol{sym("ok", "ilm", symtab.RealtimeHigh, 99, false)}))
	assert.Zero(t, Total(nil))
	assert.Empty(t, Flatten(nil))
}

func TestRules(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 4)
	rules[0].Label = "changed"
	assert.Equal(t, "High realtime symbol in slow memory", Rules()[0].Label)
}

func TestCrossTab(t *testing.T) {
	a := sym("a", "ext_memory1", symtab.RealtimeHigh, 10, true)
	a.Module = "module_2"
	b := sym("b", "ilm", symtab.RealtimeLow, 90, false)
	b.Module = "module_1"

	m := CrossTab(Classify([]*symtab.Symbol{a, b}), symtab.ByModule)
	assert.Equal(t, []string{"module_1", "module_2"}, m.Keys)
	assert.Equal(t, []string{"R1", "R2", "R3", "R4"}, m.Rules)
	assert.Equal(t, 1, m.Count("module_2", "R1"))
	assert.Equal(t, 0, m.Count("module_2", "R2"))
	assert.Equal(t, 1, m.Count("module_1", "R4"))
	assert.Equal(t, 0, m.Count("module_9", "R1"))
}
