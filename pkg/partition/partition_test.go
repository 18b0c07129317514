package partition

import (
	"slices"
	"testing"
)

func TestNew_Canonical(t *testing.T) {
	p, err := New([]ThreadID{3, 1}, []ThreadID{2}, []ThreadID{0, 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := [][]ThreadID{{0, 4}, {1, 3}, {2}}
	got := p.Sets()
	if len(got) != len(want) {
		t.Fatalf("Sets() = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("Sets()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if p.Key() != "0,4|1,3|2" {
		t.Errorf("Key() = %q", p.Key())
	}
	if p.String() != "{0,4}{1,3}{2}" {
		t.Errorf("String() = %q", p.String())
	}
	if p.Len() != 3 || p.Size() != 5 {
		t.Errorf("Len() = %d, Size() = %d", p.Len(), p.Size())
	}
}

func TestNew_DoesNotRetainInput(t *testing.T) {
	set := []ThreadID{2, 1}
	p := MustNew(set)
	set[0] = 9

	if p.Key() != "1,2" {
		t.Errorf("partition changed with input: %q", p.Key())
	}
	if !slices.Equal(set, []ThreadID{9, 1}) {
		t.Errorf("input was reordered: %v", set)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		sets [][]ThreadID
	}{
		{"empty set", [][]ThreadID{{0}, {}}},
		{"negative id", [][]ThreadID{{-1, 2}}},
		{"overlap", [][]ThreadID{{0, 1}, {1, 2}}},
		{"duplicate within set", [][]ThreadID{{3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.sets...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPartition_EqualIgnoresOrder(t *testing.T) {
	a := MustNew([]ThreadID{0, 1}, []ThreadID{2})
	b := MustNew([]ThreadID{2}, []ThreadID{1, 0})
	c := MustNew([]ThreadID{0}, []ThreadID{1, 2})

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Error("a and b should be equal")
	}
	if a.Equal(c) {
		t.Error("a and c should differ")
	}
}

func TestPartition_Compare(t *testing.T) {
	ordered := []Partition{
		MustNew([]ThreadID{0}),
		MustNew([]ThreadID{0}, []ThreadID{1}),
		MustNew([]ThreadID{0, 1}),
		MustNew([]ThreadID{0, 1}, []ThreadID{2}),
		MustNew([]ThreadID{2}),
	}

	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Compare(ordered[j])
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%s, %s) = %d, want %d", ordered[i], ordered[j], got, want)
			}
		}
	}
}

func TestPartition_Names(t *testing.T) {
	p := MustNew([]ThreadID{1, 0}, []ThreadID{2})
	names := []string{"human", "chimp", "gorilla"}

	if got := p.Format(names); got != "{human,chimp}{gorilla}" {
		t.Errorf("Format() = %q", got)
	}
	got := p.Names(names)
	if !slices.Equal(got[0], []string{"human", "chimp"}) || !slices.Equal(got[1], []string{"gorilla"}) {
		t.Errorf("Names() = %v", got)
	}
	if got := p.Format(names[:1]); got != "{human,1}{2}" {
		t.Errorf("Format() with missing names = %q", got)
	}
}

func TestPartition_IsTrivial(t *testing.T) {
	if !(Partition{}).IsTrivial() {
		t.Error("empty partition should be trivial")
	}
	if !MustNew([]ThreadID{0, 1, 2}).IsTrivial() {
		t.Error("single set should be trivial")
	}
	if MustNew([]ThreadID{0}, []ThreadID{1}).IsTrivial() {
		t.Error("two sets should not be trivial")
	}
}
