package symtab

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []*Symbol {
	return []*Symbol{
		{
			Name:           "symbol_0",
			Module:         "module_3",
			Filename:       "file_12.c",
			InputSection:   SectionCode,
			Size:           100,
			Address:        "0x80001000",
			PhysicalMemory: "sysram",
			OutSection:     "sysram_code",
			OutputSection:  OutputInit,
			Realtime:       RealtimeHigh,
			AccessCount:    42,
			HWUsage:        true,
			Folder:         "core/mlm",
			Cost:           800,
		},
		{
			Name:           `odd "name", 符號`,
			Module:         "模組_1",
			Filename:       "file_1.c",
			InputSection:   SectionBSS,
			Size:           16,
			Address:        "0x8fffffff",
			PhysicalMemory: "ext_memory2",
			OutSection:     "ext_memory2_data",
			OutputSection:  OutputROAfterWrite,
			Realtime:       RealtimeLow,
			AccessCount:    0,
			HWUsage:        false,
			Folder:         "open_base/exthal",
			Cost:           32,
		},
	}
}

func TestWrite_Quoting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()[:1]))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		`"name","module","filename","input_section","size","address","physical_memory","out_section","output_section","realtime","access_count","hw_usage","folder","cost"`,
		lines[0])
	assert.Equal(t,
		`"symbol_0","module_3","file_12.c","code",100,"0x80001000","sysram","sysram_code","init","High",42,"Yes","core/mlm",800`,
		lines[1])
}

func TestReadWrite_NonASCII(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestRead_LegacyHeader(t *testing.T) {
	in := "\ufeff" + `symbol_name,symbol_module,symbol_filename,input_section,symbol_size,symbol_address,symbol_physical_memory,symbol_out_section,symbol_protection,symbol_realtime,symbol_access_count,symbol_hw_usage,symbol_folder_name_for_file,module_total_size
"symbol_1","module_2","file_3.c","data",200,"0x80000010","ilm","ilm_data","data","Low",90,"No","base/hal",1.5
`
	got, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "symbol_1", s.Name)
	assert.Equal(t, OutputData, s.OutputSection)
	assert.Equal(t, "base/hal", s.Folder)
	assert.Equal(t, int64(2000), s.Cost, "cost is derived when the column is absent")
}

func TestRead_FloatCost(t *testing.T) {
	in := `name,module,filename,input_section,size,address,physical_memory,out_section,output_section,realtime,access_count,hw_usage,cost
a,m,f.c,code,100,0x1,dlm,dlm_code,code,Medium,5,Yes,1000.0
`
	got, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1000), got[0].Cost)
	assert.Empty(t, got[0].Folder)
}

func TestRead_Malformed(t *testing.T) {
	header := strings.Join(Columns, ",") + "\n"
	tests := []struct {
		name string
		in   string
	}{
		{name: "missing column", in: "name,module\na,b\n"},
		{name: "duplicate column", in: "name,symbol_name," + header},
		{name: "bad size", in: header + "a,m,f,code,big,0x1,ilm,ilm_code,code,High,1,Yes,x,1\n"},
		{name: "fractional size", in: header + "a,m,f,code,1.5,0x1,ilm,ilm_code,code,High,1,Yes,x,1\n"},
		{name: "bad realtime", in: header + "a,m,f,code,16,0x1,ilm,ilm_code,code,Urgent,1,Yes,x,1\n"},
		{name: "bad section", in: header + "a,m,f,text,16,0x1,ilm,ilm_code,code,High,1,Yes,x,1\n"},
		{name: "bad hw_usage", in: header + "a,m,f,code,16,0x1,ilm,ilm_code,code,High,1,maybe,x,1\n"},
		{name: "short row", in: header + "a,m,f\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestRead_Empty(t *testing.T) {
	got, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Read(strings.NewReader(strings.Join(Columns, ",") + "\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_Missing(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope", "symbols.csv"))
	require.NoError(t, err, "a missing file means no data")
	assert.Empty(t, got)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2025-01-02", "symbols.csv")
	require.NoError(t, Save(path, sample()))

	_, err := os.Stat(path)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), got)
}

func TestFilter(t *testing.T) {
	symbols := sample()

	assert.Len(t, Filter{}.Apply(symbols), 2)
	assert.True(t, Filter{}.Empty())

	got := Filter{Memory: []string{"sysram"}}.Apply(symbols)
	require.Len(t, got, 1)
	assert.Same(t, symbols[0], got[0], "filtering selects, it does not copy")

	assert.Empty(t, Filter{Memory: []string{"sysram"}, Realtime: []Realtime{RealtimeLow}}.Apply(symbols))
	assert.Len(t, Filter{Section: []InputSection{SectionBSS, SectionCode}}.Apply(symbols), 2)
	assert.Len(t, Filter{Module: []string{"模組_1"}, Folder: []string{"open_base/exthal"}}.Apply(symbols), 1)
}

func TestOutputSection_Description(t *testing.T) {
	assert.Equal(t, "always powered-on section", OutputAlwaysPowerOn.Description())
	assert.Equal(t, "unknown section", OutputSection("bogus").Description())
	assert.True(t, OutputROAfterWrite.Valid())
	assert.False(t, OutputSection("protected").Valid())
}
