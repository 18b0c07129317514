package partition

import (
	"cmp"
	"slices"
)

// Entry is a partition together with its multiplicity.
type Entry struct {
	Partition Partition
	Count     int
}

// Multiset counts occurrences of structurally equal partitions.
//
// The zero value is not usable; use NewMultiset. A Multiset is not safe for
// concurrent use.
type Multiset struct {
	entries map[string]*Entry
	total   int
}

// NewMultiset creates an empty multiset.
func NewMultiset() *Multiset {
	return &Multiset{entries: make(map[string]*Entry)}
}

// Add records one occurrence of p.
func (m *Multiset) Add(p Partition) { m.AddN(p, 1) }

// AddN records n occurrences of p. Non-positive n is ignored.
func (m *Multiset) AddN(p Partition, n int) {
	if n <= 0 {
		return
	}
	key := p.Key()
	if e, ok := m.entries[key]; ok {
		e.Count += n
	} else {
		m.entries[key] = &Entry{Partition: p, Count: n}
	}
	m.total += n
}

// Count returns the multiplicity of p.
func (m *Multiset) Count(p Partition) int {
	if e, ok := m.entries[p.Key()]; ok {
		return e.Count
	}
	return 0
}

// Len returns the number of distinct partitions.
func (m *Multiset) Len() int { return len(m.entries) }

// Total returns the sum of all multiplicities.
func (m *Multiset) Total() int { return m.total }

// Merge adds every entry of o to m.
func (m *Multiset) Merge(o *Multiset) {
	for _, e := range o.entries {
		m.AddN(e.Partition, e.Count)
	}
}

// Entries returns a copy of every entry in unspecified order.
func (m *Multiset) Entries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out
}

// Ranked returns all entries sorted by descending count, ties broken by
// ascending canonical partition order.
func (m *Multiset) Ranked() []Entry {
	out := m.Entries()
	slices.SortFunc(out, compareEntries)
	return out
}

func compareEntries(a, b Entry) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return a.Partition.Compare(b.Partition)
}

// FilterMinCount returns the entries whose count is at least min, preserving
// order.
func FilterMinCount(entries []Entry, min int) []Entry {
	if min <= 1 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Count >= min {
			out = append(out, e)
		}
	}
	return out
}

// Limit truncates entries to at most n items. Non-positive n means no limit.
func Limit(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) <= n {
		return entries
	}
	return entries[:n]
}
