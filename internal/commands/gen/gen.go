// Package gen drives symbol table generation for single days and date ranges.
package gen

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	"github.com/blacktop/memsym/internal/utils"
	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/blacktop/memsym/pkg/symgen"
	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/blacktop/memsym/pkg/trend"
	"github.com/dustin/go-humanize"
)

// Config holds the generator settings shared by every day.
type Config struct {
	Regions memmap.Table
	// Seed makes runs reproducible; zero seeds from the clock.
	Seed        int64
	MaxBackfill int
	Correlated  bool
}

func (c *Config) options(offset int64) []symgen.Option {
	opts := []symgen.Option{
		symgen.WithMaxBackfillAttempts(c.MaxBackfill),
		symgen.WithCorrelatedAccess(c.Correlated),
	}
	if c.Seed != 0 {
		opts = append(opts, symgen.WithSeed(c.Seed+offset))
	}
	return opts
}

func (c *Config) regions() memmap.Table {
	if len(c.Regions) == 0 {
		return memmap.Default()
	}
	return c.Regions
}

// DayConfig is the input of a single generation.
type DayConfig struct {
	Config
	Count int
	// Output is the CSV path to write; empty skips writing.
	Output string
	// Day is the 1-based day index of a batch.
	Day int
	// Previous is the table of the day before, if any.
	Previous []*symtab.Symbol
}

// GenerateDay produces a fresh table on the first day, or when there is no previous
// table, and a drifted continuation of the previous table otherwise. The table is
// written to conf.Output when set.
func GenerateDay(conf *DayConfig) (*symgen.Result, error) {
	g := symgen.New(conf.regions(), conf.options(int64(conf.Day))...)

	var res *symgen.Result
	if conf.Day <= 1 || len(conf.Previous) == 0 {
		if conf.Day > 1 {
			log.WithField("day", conf.Day).Warn("No previous symbols to continue from, generating a fresh table")
		}
		res = g.Generate(conf.Count)
	} else {
		res = g.Continue(conf.Previous)
	}

	if conf.Output != "" {
		if err := symtab.Save(conf.Output, res.Symbols); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", conf.Output, err)
		}
	}
	return res, nil
}

// BatchConfig is the input of a multi-day run.
type BatchConfig struct {
	Config
	Project string
	Start   string
	End     string
	Count   int
}

// DayReport describes one finished day of a batch.
type DayReport struct {
	Day    int
	Date   string
	Path   string
	Result *symgen.Result
}

// Dates returns the dates covered by the batch.
func (c *BatchConfig) Dates() ([]string, error) {
	return utils.DateRange(c.Start, c.End)
}

// RunBatch generates one table per date into <project>/<date>/symbols.csv, feeding
// every day's table to the next. onDay, if set, is called after each day.
func RunBatch(ctx context.Context, conf *BatchConfig, onDay func(DayReport)) error {
	if conf.Project == "" {
		return fmt.Errorf("project folder is required")
	}
	dates, err := conf.Dates()
	if err != nil {
		return err
	}

	var prev []*symtab.Symbol
	for i, date := range dates {
		if err := ctx.Err(); err != nil {
			return err
		}
		day := DayConfig{
			Config:   conf.Config,
			Count:    conf.Count,
			Output:   filepath.Join(conf.Project, date, trend.DatasetFile),
			Day:      i + 1,
			Previous: prev,
		}
		res, err := GenerateDay(&day)
		if err != nil {
			return fmt.Errorf("day %s: %w", date, err)
		}
		log.WithFields(log.Fields{
			"date":    date,
			"symbols": len(res.Symbols),
		}).Debug("generated day")
		if onDay != nil {
			onDay(DayReport{Day: i + 1, Date: date, Path: day.Output, Result: res})
		}
		prev = res.Symbols
	}
	return nil
}

// LogUsage logs how full every region is.
func LogUsage(usage []memmap.Usage) {
	for _, u := range usage {
		utils.Indent(log.Info, 2)(fmt.Sprintf("%-12s %10s / %-10s (%.1f%%)",
			u.Region,
			humanize.IBytes(uint64(u.Used)),
			u.Capacity,
			u.Percent(),
		))
	}
}

// LogResult logs the outcome of a generation.
func LogResult(res *symgen.Result) {
	log.WithFields(log.Fields{
		"symbols":    len(res.Symbols),
		"requested":  res.Requested,
		"rejected":   res.Rejected,
		"backfilled": res.Backfilled,
		"dropped":    res.Dropped,
	}).Info("Generated symbol table")
	LogUsage(res.Usage)
}
