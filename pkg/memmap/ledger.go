package memmap

// Ledger tracks the bytes allocated per region during a single generation run.
// Regions that are not in the table have no capacity limit.
type Ledger struct {
	table Table
	used  map[string]int64
}

// Usage is the allocation state of one region.
type Usage struct {
	Region   string
	Used     int64
	Capacity ByteSize
}

// Percent returns the used share of the capacity.
func (u Usage) Percent() float64 {
	if u.Capacity <= 0 {
		return 0
	}
	return float64(u.Used) * 100 / float64(u.Capacity)
}

// NewLedger returns an empty ledger for the table.
func (t Table) NewLedger() *Ledger {
	return &Ledger{
		table: t,
		used:  make(map[string]int64, len(t)),
	}
}

// Fits reports whether size more bytes still fit into the region.
func (l *Ledger) Fits(region string, size int) bool {
	r, ok := l.table.Lookup(region)
	if !ok {
		return true
	}
	return l.used[region]+int64(size) <= int64(r.Capacity)
}

// Reserve books size bytes in the region if they fit and reports whether they did.
// Nothing is booked on rejection.
func (l *Ledger) Reserve(region string, size int) bool {
	if !l.Fits(region, size) {
		return false
	}
	l.used[region] += int64(size)
	return true
}

// Used returns the bytes booked in the region so far.
func (l *Ledger) Used(region string) int64 {
	return l.used[region]
}

// Usage returns the allocation state of every region in table order.
func (l *Ledger) Usage() []Usage {
	usage := make([]Usage, 0, len(l.table))
	for _, r := range l.table {
		usage = append(usage, Usage{
			Region:   r.Name,
			Used:     l.used[r.Name],
			Capacity: r.Capacity,
		})
	}
	return usage
}
