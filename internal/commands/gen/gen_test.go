package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/blacktop/memsym/pkg/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDay_Fresh(t *testing.T) {
	out := filepath.Join(t.TempDir(), "day", "symbols.csv")
	res, err := GenerateDay(&DayConfig{
		Config: Config{Seed: 1},
		Count:  200,
		Output: out,
		Day:    1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Symbols)
	assert.LessOrEqual(t, len(res.Symbols), 200)

	loaded, err := symtab.Load(out)
	require.NoError(t, err)
	assert.Equal(t, res.Symbols, loaded)
}

func TestGenerateDay_NoOutput(t *testing.T) {
	res, err := GenerateDay(&DayConfig{Config: Config{Seed: 5}, Count: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Requested)
}

func TestGenerateDay_Continue(t *testing.T) {
	prev := []*symtab.Symbol{
		{Name: "symbol_0", Module: "module_1", Size: 100, PhysicalMemory: "ilm", Realtime: symtab.RealtimeHigh},
	}

	// day one ignores the previous table
	res, err := GenerateDay(&DayConfig{Config: Config{Seed: 2}, Count: 5, Day: 1, Previous: prev})
	require.NoError(t, err)
	require.Len(t, res.Symbols, 5)
	assert.Zero(t, res.Dropped)

	res, err = GenerateDay(&DayConfig{Config: Config{Seed: 2}, Count: 5, Day: 2, Previous: prev})
	require.NoError(t, err)
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "symbol_0", res.Symbols[0].Name)
	assert.GreaterOrEqual(t, res.Symbols[0].Size, 100)
	assert.LessOrEqual(t, res.Symbols[0].Size, 102)

	// later days without history start fresh
	res, err = GenerateDay(&DayConfig{Config: Config{Seed: 2}, Count: 5, Day: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Requested)
}

func TestGenerateDay_EmptyPrevious(t *testing.T) {
	h := memory.New()
	defer func(l log.Interface) { log.Log = l }(log.Log)
	log.Log = &log.Logger{Handler: h, Level: log.InfoLevel}

	res, err := GenerateDay(&DayConfig{Config: Config{Seed: 3}, Count: 4, Day: 5, Previous: []*symtab.Symbol{}})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Requested)

	require.Len(t, h.Entries, 1)
	assert.Equal(t, log.WarnLevel, h.Entries[0].Level)
	assert.Equal(t, 5, h.Entries[0].Fields["day"])

	// the first day is fresh by definition and stays quiet
	h.Entries = nil
	_, err = GenerateDay(&DayConfig{Config: Config{Seed: 3}, Count: 4, Day: 1})
	require.NoError(t, err)
	assert.Empty(t, h.Entries)
}

func TestGenerateDay_BadOutput(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := GenerateDay(&DayConfig{Config: Config{Seed: 1}, Count: 3, Output: filepath.Join(blocker, "symbols.csv")})
	assert.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	project := filepath.Join(t.TempDir(), "demo")
	var reports []DayReport
	err := RunBatch(context.Background(), &BatchConfig{
		Config:  Config{Seed: 42, Regions: memmap.Default()},
		Project: project,
		Start:   "2025-01-30",
		End:     "2025-02-02",
		Count:   300,
	}, func(r DayReport) {
		reports = append(reports, r)
	})
	require.NoError(t, err)
	require.Len(t, reports, 4)

	for i, r := range reports {
		assert.Equal(t, i+1, r.Day)
		assert.FileExists(t, filepath.Join(project, r.Date, trend.DatasetFile))
	}
	assert.Equal(t, "2025-02-02", reports[3].Date)

	// names carry over and sizes only grow
	first := make(map[string]int)
	for _, s := range reports[0].Result.Symbols {
		first[s.Name] = s.Size
	}
	for _, s := range reports[1].Result.Symbols {
		size, ok := first[s.Name]
		require.True(t, ok, s.Name)
		assert.GreaterOrEqual(t, s.Size, size)
	}
	assert.LessOrEqual(t, len(reports[3].Result.Symbols), len(reports[0].Result.Symbols))

	days, err := trend.Summarize(project)
	require.NoError(t, err)
	assert.Len(t, days, 4)
}

func TestRunBatch_Invalid(t *testing.T) {
	tests := []struct {
		name string
		conf BatchConfig
	}{
		{name: "no project", conf: BatchConfig{Start: "2025-01-01", End: "2025-01-02"}},
		{name: "reversed", conf: BatchConfig{Project: t.TempDir(), Start: "2025-01-02", End: "2025-01-01"}},
		{name: "bad date", conf: BatchConfig{Project: t.TempDir(), Start: "yesterday", End: "2025-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, RunBatch(context.Background(), &tt.conf, nil))
		})
	}
}

func TestRunBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	project := t.TempDir()
	err := RunBatch(ctx, &BatchConfig{Project: project, Start: "2025-01-01", End: "2025-01-03", Count: 10}, nil)
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(project)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
