package ancestry

import (
	"encoding/json"
	"reflect"
	"testing"

	perrors "github.com/matzehuels/poatree/pkg/errors"
)

func nestedTree(t *testing.T) *Tree {
	t.Helper()
	tree, _, err := Build(5, ranked(
		part([]ThreadID{0, 1, 2}, []ThreadID{3, 4}),
		part([]ThreadID{0, 1}, []ThreadID{2}),
	))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestSnapshot_RoundTrip(t *testing.T) {
	tree := nestedTree(t)
	snap := tree.Snapshot()

	if snap.Threads != 5 || len(snap.Parents) != tree.Len() || len(snap.Members) != tree.InternalCount() {
		t.Fatalf("snapshot = %+v", snap)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(decoded)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !reflect.DeepEqual(restored.nodes, tree.nodes) {
		t.Errorf("restored tree differs:\n got %+v\nwant %+v", restored.nodes, tree.nodes)
	}
	if !reflect.DeepEqual(LeafGroups(restored), LeafGroups(tree)) {
		t.Errorf("leaf groups differ")
	}
}

func TestLabel_UnknownThreads(t *testing.T) {
	tree := NewStar(2)
	tree.nodes[2].Members = []ThreadID{-3}
	if got := tree.Label(2, []string{"a", "b"}); got != "-3" {
		t.Errorf("Label() = %q, want %q", got, "-3")
	}
}

func TestSnapshot_Star(t *testing.T) {
	snap := NewStar(2).Snapshot()
	want := Snapshot{Threads: 2, Parents: []NodeID{NoParent, RootID, RootID}}
	if !reflect.DeepEqual(snap, want) {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}
}

func TestRestore_Invalid(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"negative threads", Snapshot{Threads: -1}},
		{"missing parents", Snapshot{Threads: 2, Parents: []NodeID{NoParent, 0}}},
		{"parent out of range", Snapshot{Threads: 2, Parents: []NodeID{NoParent, 0, 9}}},
		{"root with parent", Snapshot{Threads: 1, Parents: []NodeID{1, 0}}},
		{"leaf as parent", Snapshot{Threads: 2, Parents: []NodeID{NoParent, 0, 1}}},
		{
			"cycle",
			Snapshot{
				Threads: 1,
				Parents: []NodeID{NoParent, 2, 3, 2},
				Members: [][]ThreadID{{0}, {0}},
			},
		},
		{
			"member out of range",
			Snapshot{
				Threads: 2,
				Parents: []NodeID{NoParent, 3, 3, RootID},
				Members: [][]ThreadID{{-5, 7}},
			},
		},
		{
			"members differ from leaves below",
			Snapshot{
				Threads: 3,
				Parents: []NodeID{NoParent, 4, 4, RootID, RootID},
				Members: [][]ThreadID{{0, 2}},
			},
		},
		{
			"missing member",
			Snapshot{
				Threads: 3,
				Parents: []NodeID{NoParent, 4, 4, RootID, RootID},
				Members: [][]ThreadID{{0}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Restore(tt.snap); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
				t.Errorf("Restore() err = %v, want INVALID_INPUT", err)
			}
		})
	}
}
