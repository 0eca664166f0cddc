// Package memmap describes the physical memory regions symbols are placed into.
//
// A region carries a name, a weight and a byte capacity. The weight is used both as
// the likelihood of a region being picked during generation and as the cost
// multiplier of every byte placed in it.
package memmap

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// DefaultWeight is the cost multiplier of a region missing from the table.
const DefaultWeight = 1

// ErrInvalidTable is returned when a region table fails validation.
var ErrInvalidTable = errors.New("invalid region table")

// Region is a named physical memory pool.
type Region struct {
	Name     string   `yaml:"name" mapstructure:"name" json:"name"`
	Weight   int      `yaml:"weight" mapstructure:"weight" json:"weight"`
	Capacity ByteSize `yaml:"capacity" mapstructure:"capacity" json:"capacity"`
}

func (r Region) String() string {
	return fmt.Sprintf("%s (weight=%d, capacity=%s)", r.Name, r.Weight, r.Capacity)
}

// Table is an ordered list of regions.
type Table []Region

// Default returns the stock region table.
func Default() Table {
	return Table{
		{Name: "ilm", Weight: 10, Capacity: 64 * KiB},
		{Name: "dlm", Weight: 10, Capacity: 64 * KiB},
		{Name: "sysram", Weight: 8, Capacity: 256 * KiB},
		{Name: "ext_memory1", Weight: 2, Capacity: 1 * MiB},
		{Name: "ext_memory2", Weight: 2, Capacity: 1 * MiB},
	}
}

// Names returns the region names in table order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for _, r := range t {
		names = append(names, r.Name)
	}
	return names
}

// Lookup returns the region with the given name.
func (t Table) Lookup(name string) (Region, bool) {
	for _, r := range t {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// Weight returns the weight of the named region or DefaultWeight if it is unknown.
func (t Table) Weight(name string) int {
	if r, ok := t.Lookup(name); ok {
		return r.Weight
	}
	return DefaultWeight
}

// Cost returns size × weight for a symbol placed in the named region.
func (t Table) Cost(name string, size int) int64 {
	return int64(size) * int64(t.Weight(name))
}

// Pick draws a region with probability proportional to its weight.
// Regions with a non-positive weight are never picked; ok is false when
// no region can be picked at all.
func (t Table) Pick(rng *rand.Rand) (Region, bool) {
	total := 0
	for _, r := range t {
		if r.Weight > 0 {
			total += r.Weight
		}
	}
	if total == 0 {
		return Region{}, false
	}
	n := rng.Intn(total)
	for _, r := range t {
		if r.Weight <= 0 {
			continue
		}
		if n < r.Weight {
			return r, true
		}
		n -= r.Weight
	}
	return Region{}, false
}

// Validate checks that region names are set and unique and that weights and
// capacities are not negative.
func (t Table) Validate() error {
	seen := make(map[string]bool, len(t))
	for i, r := range t {
		switch {
		case r.Name == "":
			return errors.Wrapf(ErrInvalidTable, "region %d has no name", i)
		case seen[r.Name]:
			return errors.Wrapf(ErrInvalidTable, "duplicate region %q", r.Name)
		case r.Weight < 0:
			return errors.Wrapf(ErrInvalidTable, "region %q has negative weight %d", r.Name, r.Weight)
		case r.Capacity < 0:
			return errors.Wrapf(ErrInvalidTable, "region %q has negative capacity %d", r.Name, r.Capacity)
		}
		seen[r.Name] = true
	}
	return nil
}
