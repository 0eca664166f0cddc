package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/memsym/internal/config"
	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFilter(t *testing.T) {
	defer viper.Reset()

	viper.Set("test.memory", []string{"ilm"})
	viper.Set("test.section", []string{"CODE", "bss"})
	viper.Set("test.realtime", []string{"high", "Low"})

	f, err := readFilter("test")
	require.NoError(t, err)
	assert.Equal(t, []string{"ilm"}, f.Memory)
	assert.Equal(t, []symtab.InputSection{symtab.SectionCode, symtab.SectionBSS}, f.Section)
	assert.Equal(t, []symtab.Realtime{symtab.RealtimeHigh, symtab.RealtimeLow}, f.Realtime)

	viper.Set("test.realtime", []string{"urgent"})
	_, err = readFilter("test")
	assert.Error(t, err)

	viper.Set("test.realtime", []string{})
	viper.Set("test.section", []string{"text"})
	_, err = readFilter("test")
	assert.Error(t, err)
}

func TestRegionTable(t *testing.T) {
	conf := &config.Config{Regions: memmap.Default()}

	got, err := regionTable(conf, "")
	require.NoError(t, err)
	assert.Equal(t, memmap.Default(), got)

	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions:\n  - name: tcm\n    weight: 4\n    capacity: 16KiB\n"), 0o644))
	got, err = regionTable(conf, path)
	require.NoError(t, err)
	assert.Equal(t, memmap.Table{{Name: "tcm", Weight: 4, Capacity: 16 * memmap.KiB}}, got)

	_, err = regionTable(conf, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadTable_Missing(t *testing.T) {
	symbols, err := loadTable(filepath.Join(t.TempDir(), "symbols.csv"))
	require.NoError(t, err)
	assert.Empty(t, symbols)
}
