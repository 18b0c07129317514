package pipeline

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/poatree/pkg/cache"
	"github.com/matzehuels/poatree/pkg/pograph"
)

const primates = `SOURCENAME=human
SOURCENAME=chimp
SOURCENAME=gorilla
SOURCENAME=mouse
T:S0S1S2S3
A:L0S0S1S2
C:L0S3
G:L1S0S1
T:L1S2
A:L3L4S0S1S2
C:L5L2S0S1S2S3
G:L6S0S1S2
T:L6S3
`

func primatesGraph(t *testing.T) *pograph.Graph {
	t.Helper()
	g, err := pograph.ParsePOA([]byte(primates))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestRunnerInfer(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Infer(context.Background(), primatesGraph(t), Options{Formats: []string{"text", "json"}})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	if got := string(res.Artifacts["text"]); got != "human chimp\ngorilla\nmouse\n" {
		t.Errorf("text artifact = %q", got)
	}
	if len(res.Artifacts["json"]) == 0 {
		t.Error("json artifact missing")
	}
	if res.CacheHit {
		t.Error("first run should not hit the cache")
	}
	if res.GraphHash == "" || res.Report.RunID == "" {
		t.Errorf("GraphHash = %q, RunID = %q", res.GraphHash, res.Report.RunID)
	}
	if res.Report.Stats.Applied != 2 || res.Report.Stats.Internal != 2 {
		t.Errorf("stats = %+v", res.Report.Stats)
	}
}

func TestRunnerInfer_Cache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	g := primatesGraph(t)

	first, err := r.Infer(ctx, g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Infer(ctx, g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Report.RunID != first.Report.RunID {
		t.Errorf("second run: hit=%v run=%s, want cached run %s", second.CacheHit, second.Report.RunID, first.Report.RunID)
	}
	if string(second.Artifacts["text"]) != string(first.Artifacts["text"]) {
		t.Error("cached report renders differently")
	}

	refreshed, err := r.Infer(ctx, g, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit || refreshed.Report.RunID == first.Report.RunID {
		t.Error("refresh should recompute")
	}

	other, err := r.Infer(ctx, g, Options{MinSupport: 3})
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("different options should miss the cache")
	}
}

func TestRunnerInfer_Filters(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	g := primatesGraph(t)

	res, err := r.Infer(context.Background(), g, Options{MinSupport: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Partitions) != 1 {
		t.Fatalf("partitions = %+v, want only the 3x partition", res.Report.Partitions)
	}
	if got := string(res.Artifacts["text"]); got != "human chimp gorilla\nmouse\n" {
		t.Errorf("text = %q", got)
	}

	res, err = r.Infer(context.Background(), g, Options{MaxPartitions: 1, KeepTrivial: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Partitions) != 1 || res.Report.Stats.Distinct <= 1 {
		t.Errorf("partitions = %d, distinct = %d", len(res.Report.Partitions), res.Report.Stats.Distinct)
	}
}

func TestRunnerInfer_InvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Infer(context.Background(), primatesGraph(t), Options{Formats: []string{"gif"}})
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRunnerInfer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, log.New(io.Discard))
	_, err := r.Infer(ctx, primatesGraph(t), Options{Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCandidates(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	opts := Options{KeepTrivial: true}
	m, err := r.Extract(context.Background(), primatesGraph(t), opts)
	if err != nil {
		t.Fatal(err)
	}

	all := Candidates(m, Options{})
	if len(all) != m.Len() {
		t.Errorf("no filters: %d candidates, want %d", len(all), m.Len())
	}
	if got := Candidates(m, Options{MaxPartitions: 2}); len(got) != 2 {
		t.Errorf("MaxPartitions=2: %d candidates", len(got))
	}
	for _, e := range Candidates(m, Options{MinSupport: 3}) {
		if e.Count < 3 {
			t.Errorf("MinSupport=3 kept %s x%d", e.Partition, e.Count)
		}
	}
}

func TestRunnerInfer_Examples(t *testing.T) {
	cfg, err := LoadConfig("../../examples/poatree.toml")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	g, err := pograph.LoadFile("../../examples/primates.po")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	res, err := newTestRunner(t).Infer(context.Background(), g, cfg.Options())
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if got := string(res.Artifacts["text"]); got != "human chimp\ngorilla\nmouse\n" {
		t.Errorf("text artifact = %q", got)
	}
	if len(res.Artifacts["newick"]) == 0 {
		t.Error("newick artifact missing")
	}
}
