// Package symgen generates synthetic memory-symbol tables.
//
// Placement is a rejection sampler: every attempt draws a size and a weighted
// region and is discarded when the region cannot hold it. Nothing is retried or
// moved to another region, so a run may return fewer symbols than requested once
// regions fill up. A bounded backfill of small symbols tops the table up.
package symgen

import (
	"fmt"
	"math"

	"github.com/apex/log"
	"github.com/blacktop/memsym/pkg/memmap"
	"github.com/blacktop/memsym/pkg/symtab"
)

const (
	addressBase  = 0x80000000
	addressSpan  = 0x0FFFFFFF
	smallMaxHits = 33 // small symbols are rarely accessed
)

// Generator produces symbol tables bounded by the capacities of a region table.
type Generator struct {
	regions memmap.Table
	config
}

// Result is the outcome of a generation run.
type Result struct {
	Symbols []*symtab.Symbol
	// Requested is the target record count.
	Requested int
	// Rejected counts fresh attempts discarded because their region was full.
	Rejected int
	// Backfilled counts the small symbols appended after the main pass.
	Backfilled int
	// Dropped counts drift records that no longer fit their region.
	Dropped int
	// Usage is the final allocation per region.
	Usage []memmap.Usage
}

// Shortfall returns how many records are missing from the requested count.
func (r *Result) Shortfall() int {
	return max(r.Requested-len(r.Symbols), 0)
}

// New returns a generator for the region table.
func New(regions memmap.Table, opts ...Option) *Generator {
	return &Generator{
		regions: regions,
		config:  newConfig(opts...),
	}
}

// Run generates a fresh table of count symbols, or continues prev with size drift
// when prev is not empty.
func (g *Generator) Run(count int, prev []*symtab.Symbol) *Result {
	if len(prev) > 0 {
		return g.Continue(prev)
	}
	return g.Generate(count)
}

// Generate produces at most count fresh symbols.
func (g *Generator) Generate(count int) *Result {
	res := &Result{Requested: max(count, 0)}
	ledger := g.regions.NewLedger()
	if count <= 0 {
		res.Usage = ledger.Usage()
		return res
	}

	modules := namePool("module_%d", 9+g.rng.Intn(10))
	files := namePool("file_%d.c", 49+g.rng.Intn(50))

	res.Symbols = make([]*symtab.Symbol, 0, count)

	for i := 0; i < count; i++ {
		size := g.between(symtab.MinSize, symtab.MaxSize)
		region, ok := g.regions.Pick(g.rng)
		if !ok {
			log.Warn("no region with a positive weight to place symbols in")
			res.Usage = ledger.Usage()
			return res
		}
		if !ledger.Reserve(region.Name, size) {
			res.Rejected++
			log.WithFields(log.Fields{
				"region": region.Name,
				"size":   size,
				"used":   ledger.Used(region.Name),
			}).Debug("region full, discarding symbol")
			continue
		}
		res.Symbols = append(res.Symbols, g.symbol(i, size, region, modules, files))
	}

	budget := g.backfillAttempts * count
	for next := 0; len(res.Symbols) < count && budget > 0; budget-- {
		size := g.between(symtab.MinSize, symtab.MaxSmallSize)
		region, ok := g.regions.Pick(g.rng)
		if !ok {
			break
		}
		if !ledger.Reserve(region.Name, size) {
			continue
		}
		res.Symbols = append(res.Symbols, g.smallSymbol(next, size, region, modules, files))
		res.Backfilled++
		next++
	}

	if short := res.Shortfall(); short > 0 {
		log.WithFields(log.Fields{
			"requested": count,
			"generated": len(res.Symbols),
		}).Warnf("regions exhausted, table is %d symbols short", short)
	}

	res.Usage = ledger.Usage()
	return res
}

// Continue grows every symbol of the previous day's table by a factor drawn from
// [1.0, 1.02], clamped to the size bounds. Capacities are booked from scratch and
// symbols that no longer fit are dropped; every other field is kept.
func (g *Generator) Continue(prev []*symtab.Symbol) *Result {
	res := &Result{
		Requested: len(prev),
		Symbols:   make([]*symtab.Symbol, 0, len(prev)),
	}
	ledger := g.regions.NewLedger()

	for _, p := range prev {
		factor := 1 + g.rng.Float64()*maxDrift
		size := int(math.Floor(float64(p.Size) * factor))
		size = min(max(size, symtab.MinSize), symtab.MaxSize)

		if !ledger.Reserve(p.PhysicalMemory, size) {
			res.Dropped++
			log.WithFields(log.Fields{
				"symbol": p.Name,
				"region": p.PhysicalMemory,
				"size":   size,
			}).Debug("symbol outgrew its region, dropping")
			continue
		}

		s := p.Clone()
		s.Size = size
		s.Cost = g.regions.Cost(s.PhysicalMemory, size)
		res.Symbols = append(res.Symbols, s)
	}

	if res.Dropped > 0 {
		log.Warnf("%d symbols no longer fit their region after drift", res.Dropped)
	}

	res.Usage = ledger.Usage()
	return res
}

func (g *Generator) symbol(i, size int, region memmap.Region, modules, files []string) *symtab.Symbol {
	section := symtab.InputSections[g.rng.Intn(len(symtab.InputSections))]
	realtime := g.realtime()
	return &symtab.Symbol{
		Name:           fmt.Sprintf("symbol_%d", i),
		Module:         modules[g.rng.Intn(len(modules))],
		Filename:       files[g.rng.Intn(len(files))],
		InputSection:   section,
		Size:           size,
		Address:        g.address(),
		PhysicalMemory: region.Name,
		OutSection:     symtab.OutSectionFor(region.Name, section),
		OutputSection:  symtab.OutputSections[g.rng.Intn(len(symtab.OutputSections))],
		Realtime:       realtime,
		AccessCount:    g.accessCount(realtime),
		HWUsage:        g.rng.Intn(2) == 1,
		Folder:         symtab.Folders[g.rng.Intn(len(symtab.Folders))],
		Cost:           g.regions.Cost(region.Name, size),
	}
}

func (g *Generator) smallSymbol(i, size int, region memmap.Region, modules, files []string) *symtab.Symbol {
	return &symtab.Symbol{
		Name:           fmt.Sprintf("small_symbol_%d", i),
		Module:         modules[g.rng.Intn(len(modules))],
		Filename:       files[g.rng.Intn(len(files))],
		InputSection:   symtab.InputSections[g.rng.Intn(len(symtab.InputSections))],
		Size:           size,
		Address:        g.address(),
		PhysicalMemory: region.Name,
		OutSection:     region.Name + "_data",
		OutputSection:  symtab.OutputSections[g.rng.Intn(len(symtab.OutputSections))],
		Realtime:       symtab.RealtimeLow,
		AccessCount:    g.rng.Intn(smallMaxHits),
		HWUsage:        false,
		Folder:         symtab.Folders[g.rng.Intn(len(symtab.Folders))],
		Cost:           g.regions.Cost(region.Name, size),
	}
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) address() string {
	return symtab.FormatAddress(addressBase + uint64(g.rng.Int63n(addressSpan)))
}

func (g *Generator) realtime() symtab.Realtime {
	n := g.rng.Intn(realtimeWeightHigh + realtimeWeightMedium + realtimeWeightLow)
	switch {
	case n < realtimeWeightHigh:
		return symtab.RealtimeHigh
	case n < realtimeWeightHigh+realtimeWeightMedium:
		return symtab.RealtimeMedium
	default:
		return symtab.RealtimeLow
	}
}

func (g *Generator) accessCount(realtime symtab.Realtime) int {
	if !g.correlated {
		return g.between(0, symtab.MaxAccessCount)
	}
	switch realtime {
	case symtab.RealtimeHigh:
		return g.between(50, symtab.MaxAccessCount)
	case symtab.RealtimeMedium:
		return g.between(20, 80)
	default:
		return g.between(0, 50)
	}
}

func namePool(format string, n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = fmt.Sprintf(format, i+1)
	}
	return pool
}
