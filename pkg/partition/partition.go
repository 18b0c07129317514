package partition

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/poatree/pkg/errors"
	"github.com/matzehuels/poatree/pkg/pograph"
)

// ThreadID is re-exported for convenience.
type ThreadID = pograph.ThreadID

// Partition is a canonical set of disjoint, non-empty thread-sets.
//
// The zero value is the empty partition.
type Partition struct {
	sets [][]ThreadID
}

// New creates a partition from the given thread-sets.
// It returns an error if a set is empty, a thread ID is negative, or a
// thread appears more than once. The input slices are not retained.
func New(sets ...[]ThreadID) (Partition, error) {
	seen := make(map[ThreadID]bool)
	for i, s := range sets {
		if len(s) == 0 {
			return Partition{}, errors.New(errors.ErrCodeInvalidInput, "thread-set %d is empty", i)
		}
		for _, t := range s {
			if t < 0 {
				return Partition{}, errors.New(errors.ErrCodeInvalidInput, "negative thread id %d", t)
			}
			if seen[t] {
				return Partition{}, errors.New(errors.ErrCodeInvalidInput, "thread %d appears in more than one set", t)
			}
			seen[t] = true
		}
	}
	return canonical(sets), nil
}

// MustNew is like New but panics on invalid input. It is intended for
// literals in tests and examples.
func MustNew(sets ...[]ThreadID) Partition {
	p, err := New(sets...)
	if err != nil {
		panic(err)
	}
	return p
}

// canonical copies and sorts sets that are already known to be disjoint.
func canonical(sets [][]ThreadID) Partition {
	out := make([][]ThreadID, len(sets))
	for i, s := range sets {
		out[i] = slices.Clone(s)
		slices.Sort(out[i])
	}
	slices.SortFunc(out, func(a, b []ThreadID) int { return slices.Compare(a, b) })
	return Partition{sets: out}
}

// Sets returns a copy of the thread-sets in canonical order.
func (p Partition) Sets() [][]ThreadID {
	out := make([][]ThreadID, len(p.sets))
	for i, s := range p.sets {
		out[i] = slices.Clone(s)
	}
	return out
}

// Len returns the number of thread-sets.
func (p Partition) Len() int { return len(p.sets) }

// Size returns the total number of threads across all sets.
func (p Partition) Size() int {
	n := 0
	for _, s := range p.sets {
		n += len(s)
	}
	return n
}

// IsTrivial reports whether p has fewer than two thread-sets.
func (p Partition) IsTrivial() bool { return len(p.sets) < 2 }

// Equal reports whether p and q contain the same thread-sets.
func (p Partition) Equal(q Partition) bool { return p.Compare(q) == 0 }

// Compare orders partitions lexicographically by their canonical sets.
// It returns -1, 0 or +1.
func (p Partition) Compare(q Partition) int {
	for i := 0; i < len(p.sets) && i < len(q.sets); i++ {
		if c := slices.Compare(p.sets[i], q.sets[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(p.sets), len(q.sets))
}

// Key returns a compact canonical encoding such as "0,1|2", suitable as a
// map key. Equal partitions have equal keys.
func (p Partition) Key() string {
	var b strings.Builder
	for i, s := range p.sets {
		if i > 0 {
			b.WriteByte('|')
		}
		for j, t := range s {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(t)))
		}
	}
	return b.String()
}

// String returns the partition in set notation, e.g. "{0,1}{2}".
func (p Partition) String() string {
	return p.Format(nil)
}

// Format renders the partition in set notation using thread names.
// Threads without a name are shown by ID.
func (p Partition) Format(names []string) string {
	var b strings.Builder
	for _, s := range p.sets {
		b.WriteString(FormatSet(s, names))
	}
	return b.String()
}

// Names returns the thread-sets with thread IDs replaced by names.
func (p Partition) Names(names []string) [][]string {
	out := make([][]string, len(p.sets))
	for i, s := range p.sets {
		out[i] = make([]string, len(s))
		for j, t := range s {
			out[i][j] = threadName(t, names)
		}
	}
	return out
}

// FormatSet renders a single thread-set as "{a,b}".
func FormatSet(set []ThreadID, names []string) string {
	parts := make([]string, len(set))
	for i, t := range set {
		parts[i] = threadName(t, names)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func threadName(t ThreadID, names []string) string {
	if int(t) >= 0 && int(t) < len(names) {
		return names[t]
	}
	return strconv.Itoa(int(t))
}
