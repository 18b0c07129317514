package report

import (
	"github.com/google/uuid"

	"github.com/matzehuels/poatree/pkg/ancestry"
	"github.com/matzehuels/poatree/pkg/partition"
	"github.com/matzehuels/poatree/pkg/pograph"
)

// Report is the result of one inference run.
type Report struct {
	RunID      string            `json:"run_id" yaml:"run_id"`
	Graph      string            `json:"graph,omitempty" yaml:"graph,omitempty"`
	Threads    []string          `json:"threads" yaml:"threads"`
	Groups     [][]string        `json:"groups" yaml:"groups"`
	Partitions []PartitionRecord `json:"partitions" yaml:"partitions"`
	Tree       ancestry.Snapshot `json:"tree" yaml:"tree"`
	Stats      Stats             `json:"stats" yaml:"stats"`
}

// PartitionRecord describes one partition handed to the assembler.
type PartitionRecord struct {
	Count   int        `json:"count" yaml:"count"`
	Sets    [][]string `json:"sets" yaml:"sets"`
	Outcome string     `json:"outcome" yaml:"outcome"`
	Created int        `json:"created,omitempty" yaml:"created,omitempty"`
}

// Stats summarizes a run.
type Stats struct {
	Nodes      int `json:"nodes" yaml:"nodes"`
	Visits     int `json:"visits" yaml:"visits"`
	Observed   int `json:"observed" yaml:"observed"`     // partition occurrences
	Distinct   int `json:"distinct" yaml:"distinct"`     // distinct partitions
	Considered int `json:"considered" yaml:"considered"` // after filtering
	Applied    int `json:"applied" yaml:"applied"`
	Noop       int `json:"noop" yaml:"noop"`
	Rejected   int `json:"rejected" yaml:"rejected"`
	Internal   int `json:"internal" yaml:"internal"`
}

// New assembles a report from the stages of a run. extracted is the full
// multiset; decisions are the assembler's decisions for the partitions that
// survived filtering.
func New(g *pograph.Graph, extracted *partition.Multiset, decisions []ancestry.Decision, tree *ancestry.Tree) *Report {
	names := g.ThreadNames()
	r := &Report{
		RunID:      uuid.NewString(),
		Graph:      g.Name,
		Threads:    names,
		Groups:     ancestry.GroupNames(ancestry.LeafGroups(tree), names),
		Partitions: make([]PartitionRecord, len(decisions)),
		Tree:       tree.Snapshot(),
		Stats: Stats{
			Nodes:      len(g.Nodes),
			Visits:     g.VisitCount(),
			Observed:   extracted.Total(),
			Distinct:   extracted.Len(),
			Considered: len(decisions),
			Internal:   tree.InternalCount(),
		},
	}
	if r.Threads == nil {
		r.Threads = []string{}
	}
	if r.Groups == nil {
		r.Groups = [][]string{}
	}

	for i, d := range decisions {
		r.Partitions[i] = PartitionRecord{
			Count:   d.Count,
			Sets:    d.Partition.Names(names),
			Outcome: d.Outcome.String(),
			Created: len(d.Created),
		}
		switch d.Outcome {
		case ancestry.OutcomeApplied:
			r.Stats.Applied++
		case ancestry.OutcomeRejected:
			r.Stats.Rejected++
		default:
			r.Stats.Noop++
		}
	}
	return r
}

// AncestryTree restores the ancestry tree from the report's snapshot.
func (r *Report) AncestryTree() (*ancestry.Tree, error) {
	return ancestry.Restore(r.Tree)
}
