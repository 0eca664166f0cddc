package breakdown

import (
	"testing"

	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table() []*symtab.Symbol {
	return []*symtab.Symbol{
		{Name: "a", Module: "module_1", Folder: "base/hal", PhysicalMemory: "ilm", Size: 100, Cost: 1000, Realtime: symtab.RealtimeHigh, AccessCount: 90},
		{Name: "b", Module: "module_1", Folder: "core/mlm", PhysicalMemory: "ext_memory1", Size: 300, Cost: 600, Realtime: symtab.RealtimeHigh, AccessCount: 90, HWUsage: true},
		{Name: "c", Module: "module_2", Folder: "base/hal", PhysicalMemory: "ilm", Size: 50, Cost: 500, Realtime: symtab.RealtimeLow, AccessCount: 10},
		{Name: "d", Module: "module_3", Folder: "core/mlm", PhysicalMemory: "sysram", Size: 200, Cost: 1600, Realtime: symtab.RealtimeMedium, AccessCount: 50},
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(table())
	assert.Equal(t, Totals{
		Symbols:      4,
		Size:         650,
		Cost:         3700,
		HighRealtime: 2,
		HWUsage:      1,
		Violations:   3, // b: R1 and R3, c: R2
	}, got)

	assert.Equal(t, Totals{}, Summarize(nil))
}

func TestGroupBy(t *testing.T) {
	stats := GroupBy(table(), symtab.ByModule, symtab.ByMemory)
	require.Len(t, stats, 4)
	assert.Equal(t, []string{"module_1", "ext_memory1"}, stats[0].Key)
	assert.Equal(t, "module_1/ilm", stats[1].Name())
	assert.Equal(t, "module_3/sysram", stats[3].Name())

	regions := Regions(table())
	require.Len(t, regions, 3)
	ilm := regions[1]
	assert.Equal(t, "ilm", ilm.Name())
	assert.Equal(t, 2, ilm.Count)
	assert.Equal(t, int64(150), ilm.Size)
	assert.InDelta(t, 75.0, ilm.MeanSize(), 1e-9)
	assert.InDelta(t, 750.0, ilm.MeanCost(), 1e-9)

	assert.Empty(t, GroupBy(nil, symtab.ByModule))
	assert.Zero(t, Stat{}.MeanSize())
}

func TestTopModules(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []string
	}{
		// module_1 and module_3 both cost 1600
		{name: "all", n: 0, want: []string{"module_1", "module_3", "module_2"}},
		{name: "top two", n: 2, want: []string{"module_1", "module_3"}},
		{name: "more than present", n: 10, want: []string{"module_1", "module_3", "module_2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range TopModules(table(), tt.n) {
				got = append(got, s.Name())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFolders(t *testing.T) {
	got := Folders(table(), 0)
	require.Len(t, got, 2)
	assert.Equal(t, "core/mlm", got[0].Name())
	assert.Equal(t, int64(2200), got[0].Cost)
	assert.Equal(t, "base/hal", got[1].Name())
	assert.Equal(t, int64(1500), got[1].Cost)

	assert.Len(t, Folders(table(), 1), 1)
}

func TestCostShare(t *testing.T) {
	shares := CostShare(table())
	require.Len(t, shares, 3)
	assert.Equal(t, "sysram", shares[0].Region)
	assert.Equal(t, "ilm", shares[1].Region)

	var pct float64
	for _, s := range shares {
		pct += s.Percent
	}
	assert.InDelta(t, 100.0, pct, 1e-9)
	assert.InDelta(t, 1600.0*100/3700, shares[0].Percent, 1e-9)

	zero := []*symtab.Symbol{{PhysicalMemory: "ilm"}}
	assert.Equal(t, []Share{{Region: "ilm"}}, CostShare(zero))
}
