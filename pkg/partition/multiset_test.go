package partition

import "testing"

func TestMultiset_AddMerges(t *testing.T) {
	m := NewMultiset()
	m.Add(MustNew([]ThreadID{0, 1}, []ThreadID{2}))
	m.Add(MustNew([]ThreadID{2}, []ThreadID{1, 0}))
	m.AddN(MustNew([]ThreadID{0}, []ThreadID{1, 2}), 3)
	m.AddN(MustNew([]ThreadID{0}, []ThreadID{1}), 0)

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if m.Total() != 5 {
		t.Errorf("Total() = %d, want 5", m.Total())
	}
	if got := m.Count(MustNew([]ThreadID{0, 1}, []ThreadID{2})); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if got := m.Count(MustNew([]ThreadID{9})); got != 0 {
		t.Errorf("Count() of absent partition = %d, want 0", got)
	}
}

func TestMultiset_RankedTieBreak(t *testing.T) {
	m := NewMultiset()
	// Insert in reverse canonical order to make sure insertion order is ignored.
	m.AddN(MustNew([]ThreadID{2}, []ThreadID{3}), 2)
	m.AddN(MustNew([]ThreadID{0, 1}, []ThreadID{2}), 2)
	m.AddN(MustNew([]ThreadID{0}, []ThreadID{1}), 2)
	m.AddN(MustNew([]ThreadID{1}, []ThreadID{3}), 5)

	ranked := m.Ranked()
	want := []string{"{1}{3}", "{0}{1}", "{0,1}{2}", "{2}{3}"}
	if len(ranked) != len(want) {
		t.Fatalf("Ranked() has %d entries, want %d", len(ranked), len(want))
	}
	for i, e := range ranked {
		if e.Partition.String() != want[i] {
			t.Errorf("Ranked()[%d] = %s, want %s", i, e.Partition, want[i])
		}
	}
	if ranked[0].Count != 5 {
		t.Errorf("top count = %d, want 5", ranked[0].Count)
	}
}

func TestMultiset_Entries(t *testing.T) {
	m := NewMultiset()
	if got := m.Entries(); len(got) != 0 {
		t.Fatalf("Entries() on empty multiset = %v", got)
	}
	m.AddN(MustNew([]ThreadID{0}, []ThreadID{1}), 2)
	m.AddN(MustNew([]ThreadID{0, 1}, []ThreadID{2}), 3)
	m.Add(MustNew([]ThreadID{1}, []ThreadID{0}))

	entries := m.Entries()
	if len(entries) != m.Len() {
		t.Fatalf("Entries() has %d entries, want %d", len(entries), m.Len())
	}
	sum := 0
	for _, e := range entries {
		if got := m.Count(e.Partition); got != e.Count {
			t.Errorf("entry %s count = %d, multiset says %d", e.Partition, e.Count, got)
		}
		sum += e.Count
	}
	if sum != m.Total() {
		t.Errorf("entry counts sum to %d, want %d", sum, m.Total())
	}

	// Entries are copies.
	entries[0].Count = 100
	if m.Count(entries[0].Partition) == 100 {
		t.Error("modifying Entries() result changed the multiset")
	}
}

func TestMultiset_Merge(t *testing.T) {
	a := NewMultiset()
	a.AddN(MustNew([]ThreadID{0}, []ThreadID{1}), 2)
	b := NewMultiset()
	b.AddN(MustNew([]ThreadID{0}, []ThreadID{1}), 3)
	b.Add(MustNew([]ThreadID{0, 1}, []ThreadID{2}))

	a.Merge(b)
	if a.Count(MustNew([]ThreadID{0}, []ThreadID{1})) != 5 {
		t.Error("merged count should be 5")
	}
	if a.Len() != 2 || a.Total() != 6 {
		t.Errorf("Len() = %d, Total() = %d", a.Len(), a.Total())
	}
}

func TestFilterMinCountAndLimit(t *testing.T) {
	entries := []Entry{
		{Partition: MustNew([]ThreadID{0}, []ThreadID{1}), Count: 4},
		{Partition: MustNew([]ThreadID{0}, []ThreadID{2}), Count: 2},
		{Partition: MustNew([]ThreadID{1}, []ThreadID{2}), Count: 1},
	}

	if got := FilterMinCount(entries, 2); len(got) != 2 || got[1].Count != 2 {
		t.Errorf("FilterMinCount(2) = %v", got)
	}
	if got := FilterMinCount(entries, 0); len(got) != 3 {
		t.Errorf("FilterMinCount(0) = %v", got)
	}
	if got := Limit(entries, 1); len(got) != 1 || got[0].Count != 4 {
		t.Errorf("Limit(1) = %v", got)
	}
	if got := Limit(entries, 0); len(got) != 3 {
		t.Errorf("Limit(0) = %v", got)
	}
}
