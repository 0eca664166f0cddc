// Package violation flags symbols whose placement contradicts their declared
// timing class, hardware usage or observed access frequency.
package violation

import (
	"slices"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/memsym/pkg/symtab"
)

// Access count thresholds used by the timing class consistency rule.
const (
	LowAccessThreshold  = 33
	HighAccessThreshold = 66
)

// fastRegions are the scarce on-chip memories.
var fastRegions = []string{"ilm", "dlm", "sysram"}

// Rule is a placement predicate over a single symbol.
type Rule struct {
	ID    string
	Label string
	Match func(*symtab.Symbol) bool
}

// Group is the set of symbols violating one rule. Symbols point into the
// classified table.
type Group struct {
	Rule    Rule
	Symbols []*symtab.Symbol
}

// Label returns the rule's report heading.
func (g Group) Label() string {
	return g.Rule.Label
}

func isExternal(s *symtab.Symbol) bool {
	return strings.Contains(s.PhysicalMemory, "ext")
}

var rules = []Rule{
	{
		ID:    "R1",
		Label: "High realtime symbol in slow memory",
		Match: func(s *symtab.Symbol) bool {
			return s.Realtime == symtab.RealtimeHigh && isExternal(s)
		},
	},
	{
		ID:    "R2",
		Label: "Low realtime symbol in fast memory",
		Match: func(s *symtab.Symbol) bool {
			return s.Realtime == symtab.RealtimeLow && slices.Contains(fastRegions, s.PhysicalMemory)
		},
	},
	{
		ID:    "R3",
		Label: "HW usage symbol in external memory",
		Match: func(s *symtab.Symbol) bool {
			return s.HWUsage && isExternal(s)
		},
	},
	{
		ID:    "R4",
		Label: "Realtime class mismatches access count",
		Match: func(s *symtab.Symbol) bool {
			return (s.Realtime == symtab.RealtimeHigh && s.AccessCount < LowAccessThreshold) ||
				(s.Realtime == symtab.RealtimeLow && s.AccessCount > HighAccessThreshold)
		},
	},
}

// Rules returns the rules in evaluation order.
func Rules() []Rule {
	return slices.Clone(rules)
}

// Classify evaluates every rule against the table, in rule order, and returns the
// non-empty groups. A symbol may appear in several groups.
func Classify(symbols []*symtab.Symbol) []Group {
	var groups []Group
	for _, rule := range rules {
		var matched []*symtab.Symbol
		for _, s := range symbols {
			if rule.Match(s) {
				matched = append(matched, s)
			}
		}
		log.WithFields(log.Fields{
			"rule":  rule.ID,
			"count": len(matched),
		}).Debug(rule.Label)
		if len(matched) == 0 {
			continue
		}
		groups = append(groups, Group{Rule: rule, Symbols: matched})
	}
	return groups
}

// Total returns the number of violations across groups. A symbol that breaks
// two rules counts twice.
func Total(groups []Group) int {
	var n int
	for _, g := range groups {
		n += len(g.Symbols)
	}
	return n
}

// Flatten concatenates the groups' symbols in group order.
func Flatten(groups []Group) []*symtab.Symbol {
	out := make([]*symtab.Symbol, 0, Total(groups))
	for _, g := range groups {
		out = append(out, g.Symbols...)
	}
	return out
}

// Matrix counts violations per key and rule.
type Matrix struct {
	// Keys are the row labels, sorted.
	Keys []string
	// Rules are the column labels, in rule order.
	Rules  []string
	Counts map[string]map[string]int
}

// Count returns the number of violations of rule for key.
func (m *Matrix) Count(key, rule string) int {
	return m.Counts[key][rule]
}

// CrossTab counts the violations of every group by the key of each symbol, e.g.
// its module.
func CrossTab(groups []Group, key symtab.Key) *Matrix {
	m := &Matrix{Counts: make(map[string]map[string]int)}
	for _, g := range groups {
		m.Rules = append(m.Rules, g.Rule.ID)
		for _, s := range g.Symbols {
			k := key(s)
			row, ok := m.Counts[k]
			if !ok {
				row = make(map[string]int)
				m.Counts[k] = row
				m.Keys = append(m.Keys, k)
			}
			row[g.Rule.ID]++
		}
	}
	sort.Strings(m.Keys)
	return m
}
