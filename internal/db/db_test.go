package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/blacktop/memsym/internal/model"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset(project, date string) *model.Dataset {
	d := model.NewDataset(project, date, "symbols.csv", []*symtab.Symbol{
		{Name: "symbol_0", Module: "module_1", InputSection: symtab.SectionCode, Size: 32, PhysicalMemory: "ilm", OutSection: "ilm_code", OutputSection: symtab.OutputCode, Realtime: symtab.RealtimeHigh, AccessCount: 70, Cost: 320},
		{Name: "symbol_1", Module: "module_2", InputSection: symtab.SectionData, Size: 64, PhysicalMemory: "ext_memory1", OutSection: "ext_memory1_data", OutputSection: symtab.OutputData, Realtime: symtab.RealtimeLow, AccessCount: 3, HWUsage: true, Cost: 128},
	})
	d.CreatedAt = d.CreatedAt.Truncate(time.Second).UTC()
	return d
}

func exercise(t *testing.T, db Database) {
	t.Helper()

	d2 := dataset("demo", "2025-01-02")
	d1 := dataset("demo", "2025-01-01")
	other := dataset("other", "2025-01-01")
	for _, d := range []*model.Dataset{d2, d1, other} {
		require.NoError(t, db.Create(d))
	}
	assert.ErrorIs(t, db.Create(d1), model.ErrExists)

	got, err := db.Get(d1.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", got.Project)
	assert.Equal(t, d1.Table(), got.Table())

	_, err = db.Get("missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	list, err := db.List("demo")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, d1.ID, list[0].ID)
	assert.Equal(t, d2.ID, list[1].ID)
	assert.Empty(t, list[0].Symbols)

	all, err := db.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, db.Delete(d1.ID))
	assert.ErrorIs(t, db.Delete(d1.ID), model.ErrNotFound)
	_, err = db.Get(d1.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memsym.gob")
	db, err := NewInMemory(path)
	require.NoError(t, err)
	require.NoError(t, db.Connect())
	exercise(t, db)
	require.NoError(t, db.Close())

	reopened, err := NewInMemory(path)
	require.NoError(t, err)
	require.NoError(t, reopened.Connect())
	list, err := reopened.List("")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = NewInMemory("")
	assert.Error(t, err)
}

func TestSqlite(t *testing.T) {
	db, err := NewSqlite(filepath.Join(t.TempDir(), "memsym.db"), 100)
	require.NoError(t, err)
	require.NoError(t, db.Connect())
	defer db.Close()
	exercise(t, db)

	_, err = NewSqlite("", 0)
	assert.Error(t, err)
}

func TestPostgres_DSN(t *testing.T) {
	_, err := NewPostgres("localhost", "5432", "", "", "memsym", "", 0)
	assert.Error(t, err)

	db, err := NewPostgres("localhost", "5432", "memsym", "secret", "memsym", "", 0)
	require.NoError(t, err)
	assert.Equal(t,
		"host=localhost port=5432 user=memsym dbname=memsym password=secret sslmode=disable",
		db.(*Postgres).DSN())
}
