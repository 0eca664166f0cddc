// Package trend summarizes a project's daily symbol tables across dates.
package trend

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/apex/log"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/pkg/errors"
)

// DatasetFile is the name of a day's table inside its date folder.
const DatasetFile = "symbols.csv"

// Day is the summary of one date folder.
type Day struct {
	Date        string
	Symbols     int
	TotalSize   int64
	RegionUsage map[string]int64
	ModuleSize  map[string]int64
}

// Summarize reads every <date>/symbols.csv under projectDir, in folder name order.
// Folders without a table are skipped.
func Summarize(projectDir string) ([]Day, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read project folder %s", projectDir)
	}

	var days []Day
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(projectDir, entry.Name(), DatasetFile)
		if _, err := os.Stat(path); err != nil {
			log.WithField("folder", entry.Name()).Debug("no symbol table, skipping")
			continue
		}
		symbols, err := symtab.Load(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load %s", path)
		}
		days = append(days, summarizeDay(entry.Name(), symbols))
	}
	return days, nil
}

func summarizeDay(date string, symbols []*symtab.Symbol) Day {
	d := Day{
		Date:        date,
		Symbols:     len(symbols),
		RegionUsage: make(map[string]int64),
		ModuleSize:  make(map[string]int64),
	}
	for _, s := range symbols {
		d.TotalSize += int64(s.Size)
		d.RegionUsage[s.PhysicalMemory] += int64(s.Size)
		d.ModuleSize[s.Module] += int64(s.Size)
	}
	return d
}

// Modules returns every module seen on any day, sorted.
func Modules(days []Day) []string {
	var modules []string
	for _, d := range days {
		for m := range d.ModuleSize {
			if !slices.Contains(modules, m) {
				modules = append(modules, m)
			}
		}
	}
	slices.Sort(modules)
	return modules
}

// WriteCSV writes one row per day. Region columns follow the given order, module
// columns are sorted. Absent regions and modules count as zero.
func WriteCSV(w io.Writer, days []Day, regions []string) error {
	modules := Modules(days)

	header := []string{"date", "total_symbols", "total_size"}
	for _, r := range regions {
		header = append(header, r+"_usage")
	}
	for _, m := range modules {
		header = append(header, fmt.Sprintf("module_%s_size", m))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range days {
		row := []string{
			d.Date,
			strconv.Itoa(d.Symbols),
			strconv.FormatInt(d.TotalSize, 10),
		}
		for _, r := range regions {
			row = append(row, strconv.FormatInt(d.RegionUsage[r], 10))
		}
		for _, m := range modules {
			row = append(row, strconv.FormatInt(d.ModuleSize[m], 10))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the summary to path.
func Save(path string, days []Day, regions []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()
	if err := WriteCSV(f, days, regions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}
