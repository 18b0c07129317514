package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/poatree/pkg/ancestry"
	"github.com/matzehuels/poatree/pkg/cache"
	"github.com/matzehuels/poatree/pkg/observability"
	"github.com/matzehuels/poatree/pkg/partition"
	"github.com/matzehuels/poatree/pkg/pograph"
	"github.com/matzehuels/poatree/pkg/report"
)

// Runner executes inference with caching. It holds no per-run state, so
// one Runner may serve concurrent requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Infer runs extract → assemble → render on g.
func (r *Runner) Infer(ctx context.Context, g *pograph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	graphData, err := pograph.MarshalJSON(g)
	if err != nil {
		return nil, fmt.Errorf("hash graph: %w", err)
	}
	result := &Result{Graph: g, GraphHash: cache.Hash(graphData)}
	key := r.Keyer.ResultKey(result.GraphHash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if rep, ok := r.cachedReport(ctx, key); ok {
			result.Report = rep
			result.CacheHit = true
			r.Logger.Debug("report from cache", "run", rep.RunID)
		}
	}

	if result.Report == nil {
		rep, err := r.compute(ctx, g, opts, &result.Stats)
		if err != nil {
			return nil, err
		}
		result.Report = rep

		var buf bytes.Buffer
		if err := report.WriteJSON(&buf, rep); err == nil {
			if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLResult); err != nil {
				r.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "result", buf.Len())
			}
		}
	}

	renderStart := time.Now()
	artifacts, err := RenderAll(ctx, result.Report, opts.Formats)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("inferred ancestry",
		"threads", len(result.Report.Threads),
		"groups", len(result.Report.Groups),
		"applied", result.Report.Stats.Applied,
		"rejected", result.Report.Stats.Rejected,
		"cached", result.CacheHit)
	return result, nil
}

// Extract counts the partitions of g and returns them ranked.
func (r *Runner) Extract(ctx context.Context, g *pograph.Graph, opts Options) (*partition.Multiset, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	observability.Pipeline().OnExtractStart(ctx, len(g.Nodes), len(g.Threads))
	m, err := partition.ExtractContext(ctx, g, partition.ExtractOptions{
		KeepTrivial: opts.KeepTrivial,
		Workers:     opts.Workers,
	})
	distinct, observed := 0, 0
	if m != nil {
		distinct, observed = m.Len(), m.Total()
	}
	observability.Pipeline().OnExtractComplete(ctx, distinct, observed, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	r.Logger.Debug("extracted partitions", "distinct", distinct, "observed", observed, "took", time.Since(start))
	return m, nil
}

// Candidates ranks m and applies the MinSupport and MaxPartitions filters.
func Candidates(m *partition.Multiset, opts Options) []partition.Entry {
	ranked := partition.FilterMinCount(m.Ranked(), opts.MinSupport)
	return partition.Limit(ranked, opts.MaxPartitions)
}

func (r *Runner) compute(ctx context.Context, g *pograph.Graph, opts Options, stats *Stats) (*report.Report, error) {
	start := time.Now()
	m, err := r.Extract(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	stats.ExtractTime = time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	candidates := Candidates(m, opts)
	observability.Pipeline().OnAssembleStart(ctx, len(candidates))
	tree, decisions, err := ancestry.Build(len(g.Threads), candidates)
	stats.AssembleTime = time.Since(start)

	if err != nil {
		observability.Pipeline().OnAssembleComplete(ctx, 0, 0, stats.AssembleTime, err)
		return nil, fmt.Errorf("assemble: %w", err)
	}
	rep := report.New(g, m, decisions, tree)
	observability.Pipeline().OnAssembleComplete(ctx, rep.Stats.Applied, rep.Stats.Rejected, stats.AssembleTime, nil)
	r.Logger.Debug("assembled tree", "internal", tree.InternalCount(), "took", stats.AssembleTime)
	return rep, nil
}

func (r *Runner) cachedReport(ctx context.Context, key string) (*report.Report, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return nil, false
	}
	rep, err := report.ReadJSON(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "result")
	return rep, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
