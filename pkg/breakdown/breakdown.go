// Package breakdown aggregates symbol tables into cost and size statistics.
package breakdown

import (
	"cmp"
	"slices"
	"strings"

	"github.com/blacktop/memsym/pkg/symtab"
	"github.com/blacktop/memsym/pkg/violation"
)

// Totals are the headline figures of a table.
type Totals struct {
	Symbols      int   `json:"symbols"`
	Size         int64 `json:"size"`
	Cost         int64 `json:"cost"`
	HighRealtime int   `json:"high_realtime"`
	HWUsage      int   `json:"hw_usage"`
	Violations   int   `json:"violations"`
}

// Summarize computes the totals of a table, classifying it for the violation count.
func Summarize(symbols []*symtab.Symbol) Totals {
	t := Totals{
		Symbols:    len(symbols),
		Violations: violation.Total(violation.Classify(symbols)),
	}
	for _, s := range symbols {
		t.Size += int64(s.Size)
		t.Cost += s.Cost
		if s.Realtime == symtab.RealtimeHigh {
			t.HighRealtime++
		}
		if s.HWUsage {
			t.HWUsage++
		}
	}
	return t
}

// Stat aggregates the symbols sharing a key.
type Stat struct {
	Key   []string `json:"key"`
	Count int      `json:"count"`
	Size  int64    `json:"size"`
	Cost  int64    `json:"cost"`
}

// Name joins the key parts with "/".
func (s Stat) Name() string {
	return strings.Join(s.Key, "/")
}

// MeanSize returns the average symbol size.
func (s Stat) MeanSize() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Count)
}

// MeanCost returns the average symbol cost.
func (s Stat) MeanCost() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Cost) / float64(s.Count)
}

// GroupBy aggregates symbols by the given keys. Groups are ordered by key.
func GroupBy(symbols []*symtab.Symbol, keys ...symtab.Key) []Stat {
	index := make(map[string]int)
	var stats []Stat
	for _, s := range symbols {
		key := make([]string, len(keys))
		for i, k := range keys {
			key[i] = k(s)
		}
		id := strings.Join(key, "\x00")
		i, ok := index[id]
		if !ok {
			i = len(stats)
			index[id] = i
			stats = append(stats, Stat{Key: key})
		}
		stats[i].Count++
		stats[i].Size += int64(s.Size)
		stats[i].Cost += s.Cost
	}
	slices.SortFunc(stats, func(a, b Stat) int {
		return slices.Compare(a.Key, b.Key)
	})
	return stats
}

// byCost orders stats by descending cost, then by key.
func byCost(a, b Stat) int {
	if c := cmp.Compare(b.Cost, a.Cost); c != 0 {
		return c
	}
	return slices.Compare(a.Key, b.Key)
}

// TopModules returns the n most expensive modules. Non-positive n returns all.
func TopModules(symbols []*symtab.Symbol, n int) []Stat {
	return top(GroupBy(symbols, symtab.ByModule), n)
}

// Folders ranks folders by cost.
func Folders(symbols []*symtab.Symbol, n int) []Stat {
	return top(GroupBy(symbols, symtab.ByFolder), n)
}

func top(stats []Stat, n int) []Stat {
	slices.SortStableFunc(stats, byCost)
	if n > 0 && n < len(stats) {
		stats = stats[:n]
	}
	return stats
}

// Regions returns the size statistics of every region.
func Regions(symbols []*symtab.Symbol) []Stat {
	return GroupBy(symbols, symtab.ByMemory)
}

// ModuleRegions returns the cost statistics of every module and region pair.
func ModuleRegions(symbols []*symtab.Symbol) []Stat {
	return GroupBy(symbols, symtab.ByModule, symtab.ByMemory)
}

// Share is a region's part of the total cost.
type Share struct {
	Region  string  `json:"region"`
	Cost    int64   `json:"cost"`
	Percent float64 `json:"percent"`
}

// CostShare returns every region's share of the total cost, ordered by descending cost.
func CostShare(symbols []*symtab.Symbol) []Share {
	stats := top(Regions(symbols), 0)

	var total int64
	for _, s := range stats {
		total += s.Cost
	}

	shares := make([]Share, 0, len(stats))
	for _, s := range stats {
		share := Share{Region: s.Key[0], Cost: s.Cost}
		if total > 0 {
			share.Percent = float64(s.Cost) * 100 / float64(total)
		}
		shares = append(shares, share)
	}
	return shares
}
