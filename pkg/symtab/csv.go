package symtab

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/pkg/errors"
)

// ErrSchema is returned when a persisted table has a wrong header or a malformed row.
var ErrSchema = errors.New("malformed symbol table")

// Columns is the header of a persisted table, in order.
var Columns = []string{
	"name",
	"module",
	"filename",
	"input_section",
	"size",
	"address",
	"physical_memory",
	"out_section",
	"output_section",
	"realtime",
	"access_count",
	"hw_usage",
	"folder",
	"cost",
}

var optionalColumns = map[string]bool{
	"folder": true,
	"cost":   true,
}

// legacy header names written by earlier versions of the tool
var columnAliases = map[string]string{
	"folder_name_for_file": "folder",
	"protection":           "output_section",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Write writes the table as delimited text. Numeric fields are written bare,
// every other field is quoted.
func Write(w io.Writer, symbols []*Symbol) error {
	bw := bufio.NewWriter(w)
	for i, col := range Columns {
		if i > 0 {
			bw.WriteByte(',')
		}
		writeQuoted(bw, col)
	}
	bw.WriteByte('\n')

	for _, s := range symbols {
		writeQuoted(bw, s.Name)
		bw.WriteByte(',')
		writeQuoted(bw, s.Module)
		bw.WriteByte(',')
		writeQuoted(bw, s.Filename)
		bw.WriteByte(',')
		writeQuoted(bw, string(s.InputSection))
		bw.WriteByte(',')
		bw.WriteString(strconv.Itoa(s.Size))
		bw.WriteByte(',')
		writeQuoted(bw, s.Address)
		bw.WriteByte(',')
		writeQuoted(bw, s.PhysicalMemory)
		bw.WriteByte(',')
		writeQuoted(bw, s.OutSection)
		bw.WriteByte(',')
		writeQuoted(bw, string(s.OutputSection))
		bw.WriteByte(',')
		writeQuoted(bw, string(s.Realtime))
		bw.WriteByte(',')
		bw.WriteString(strconv.Itoa(s.AccessCount))
		bw.WriteByte(',')
		writeQuoted(bw, YesNo(s.HWUsage))
		bw.WriteByte(',')
		writeQuoted(bw, s.Folder)
		bw.WriteByte(',')
		bw.WriteString(strconv.FormatInt(s.Cost, 10))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func writeQuoted(w *bufio.Writer, s string) {
	w.WriteByte('"')
	w.WriteString(strings.ReplaceAll(s, `"`, `""`))
	w.WriteByte('"')
}

// Save writes the table to path, creating parent directories as needed.
func Save(path string, symbols []*Symbol) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := Write(f, symbols); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

// Load reads a persisted table. A missing file is not an error: it yields an
// empty table.
func Load(path string) ([]*Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	symbols, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return symbols, nil
}

// Read parses a persisted table. Unknown columns are ignored; the folder and cost
// columns are optional. When cost is absent it is derived with the default region
// weights.
func Read(r io.Reader) ([]*Symbol, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(ErrSchema, err.Error())
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	weights := memmap.Default()

	var symbols []*Symbol
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(ErrSchema, err.Error())
		}
		line, _ := cr.FieldPos(0)
		s, err := parseRecord(record, index)
		if err != nil {
			return nil, errors.Wrapf(ErrSchema, "line %d: %v", line, err)
		}
		if _, ok := index["cost"]; !ok {
			s.Cost = weights.Cost(s.PhysicalMemory, s.Size)
		}
		symbols = append(symbols, s)
	}

	return symbols, nil
}

func canonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "symbol_")
	if alias, ok := columnAliases[name]; ok {
		return alias
	}
	return name
}

func columnIndex(header []string) (map[string]int, error) {
	known := make(map[string]bool, len(Columns))
	for _, col := range Columns {
		known[col] = true
	}

	index := make(map[string]int, len(Columns))
	for i, raw := range header {
		col := canonicalColumn(raw)
		if !known[col] {
			continue
		}
		if _, dup := index[col]; dup {
			return nil, errors.Wrapf(ErrSchema, "duplicate column %q", raw)
		}
		index[col] = i
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok && !optionalColumns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrSchema, "missing columns: %s", strings.Join(missing, ", "))
	}

	return index, nil
}

func parseRecord(record []string, index map[string]int) (*Symbol, error) {
	field := func(col string) string {
		if i, ok := index[col]; ok {
			return record[i]
		}
		return ""
	}

	s := &Symbol{
		Name:           field("name"),
		Module:         field("module"),
		Filename:       field("filename"),
		InputSection:   InputSection(strings.TrimSpace(field("input_section"))),
		Address:        field("address"),
		PhysicalMemory: strings.TrimSpace(field("physical_memory")),
		OutSection:     field("out_section"),
		OutputSection:  OutputSection(strings.TrimSpace(field("output_section"))),
		Realtime:       Realtime(strings.TrimSpace(field("realtime"))),
		Folder:         field("folder"),
	}

	if !s.InputSection.Valid() {
		return nil, errors.Errorf("invalid input_section %q", s.InputSection)
	}
	if !s.Realtime.Valid() {
		return nil, errors.Errorf("invalid realtime %q", s.Realtime)
	}

	var ok bool
	if s.HWUsage, ok = parseYesNo(field("hw_usage")); !ok {
		return nil, errors.Errorf("invalid hw_usage %q", field("hw_usage"))
	}

	size, err := parseInteger(field("size"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid size")
	}
	s.Size = int(size)

	access, err := parseInteger(field("access_count"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid access_count")
	}
	s.AccessCount = int(access)

	if _, ok := index["cost"]; ok {
		if s.Cost, err = parseInteger(field("cost")); err != nil {
			return nil, errors.Wrap(err, "invalid cost")
		}
	}

	return s, nil
}

// parseInteger accepts plain integers and integral floats ("1230.0").
func parseInteger(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("%q is not a number", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("%q is not an integer", s)
	}
	return int64(f), nil
}
