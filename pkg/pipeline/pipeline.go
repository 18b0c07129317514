// Package pipeline runs ancestry inference end to end for the CLI and the
// HTTP server.
//
// # Stages
//
//  1. Extract: count the left and right partitions of every graph node
//  2. Assemble: filter the ranked partitions and build the ancestry tree
//  3. Render: write the report in the requested formats
//
// The report produced by the first two stages is cached, keyed by the graph
// content and every option that changes the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Infer(ctx, g, pipeline.Options{Formats: []string{"text"}})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Artifacts["text"])
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/poatree/pkg/cache"
	"github.com/matzehuels/poatree/pkg/errors"
	"github.com/matzehuels/poatree/pkg/pograph"
	"github.com/matzehuels/poatree/pkg/report"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMinSupport keeps every extracted partition.
	DefaultMinSupport = 1

	// DefaultFormat matches the plain leaf-group listing.
	DefaultFormat = report.FormatText
)

// DefaultWorkers is the extraction parallelism used when none is set.
func DefaultWorkers() int { return runtime.GOMAXPROCS(0) }

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one inference run. It supports JSON for API requests.
type Options struct {
	// Extract options
	Workers     int  `json:"workers,omitempty"`
	KeepTrivial bool `json:"keep_trivial,omitempty"`

	// Assemble options
	MinSupport    int  `json:"min_support,omitempty"`    // drop partitions seen fewer times
	MaxPartitions int  `json:"max_partitions,omitempty"` // 0 means all
	Refresh       bool `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     *pograph.Graph
	GraphHash string
	Report    *report.Report
	Artifacts map[string][]byte
	Stats     Stats
	CacheHit  bool
}

// Stats contains stage timings.
type Stats struct {
	ExtractTime  time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.MinSupport == 0 {
		o.MinSupport = DefaultMinSupport
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks option ranges and formats.
func (o *Options) Validate() error {
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if o.MinSupport < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_support must not be negative, got %d", o.MinSupport)
	}
	if o.MaxPartitions < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_partitions must not be negative, got %d", o.MaxPartitions)
	}
	for _, f := range o.Formats {
		if err := report.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ResultKeyOpts returns the options that feed the result cache key.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		KeepTrivial:   o.KeepTrivial,
		MinSupport:    o.MinSupport,
		MaxPartitions: o.MaxPartitions,
	}
}
