package symtab

// Filter selects symbols by attribute. An empty criterion does not restrict.
type Filter struct {
	Memory   []string
	Module   []string
	Folder   []string
	Section  []InputSection
	Realtime []Realtime
}

// Empty reports whether the filter selects every symbol.
func (f Filter) Empty() bool {
	return len(f.Memory) == 0 &&
		len(f.Module) == 0 &&
		len(f.Folder) == 0 &&
		len(f.Section) == 0 &&
		len(f.Realtime) == 0
}

// Match reports whether s satisfies every criterion.
func (f Filter) Match(s *Symbol) bool {
	return oneOf(f.Memory, s.PhysicalMemory) &&
		oneOf(f.Module, s.Module) &&
		oneOf(f.Folder, s.Folder) &&
		oneOf(f.Section, s.InputSection) &&
		oneOf(f.Realtime, s.Realtime)
}

// Apply returns the matching symbols. The result shares the records of the input.
func (f Filter) Apply(symbols []*Symbol) []*Symbol {
	if f.Empty() {
		return symbols
	}
	var out []*Symbol
	for _, s := range symbols {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

func oneOf[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}
