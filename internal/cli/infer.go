package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poatree/pkg/httputil"
	"github.com/matzehuels/poatree/pkg/observability"
	"github.com/matzehuels/poatree/pkg/pipeline"
	"github.com/matzehuels/poatree/pkg/pograph"
)

// inferOpts holds the command-line flags for the infer command.
type inferOpts struct {
	formats       string // comma-separated output formats
	output        string // output file, or base path for several formats
	workers       int    // extraction workers
	keepTrivial   bool   // count single-set partitions
	minSupport    int    // drop partitions seen fewer times
	maxPartitions int    // consider at most this many ranked partitions
	noCache       bool   // bypass the result cache
	refresh       bool   // recompute and overwrite the cached result
	redisURL      string // use a redis result cache
	trace         bool   // log pipeline and cache events
}

// inferCommand creates the infer command, which runs the full pipeline on a
// graph file and writes the rendered results.
func (c *CLI) inferCommand() *cobra.Command {
	var opts inferOpts

	cmd := &cobra.Command{
		Use:   "infer [file]",
		Short: "Infer ancestry groups from a POA graph",
		Long: `Infer ancestry groups from a POA graph.

The graph is read from file, from an http(s) URL, or from stdin when file
is "-" or omitted. Both the POA text format and JSON graphs are accepted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runInfer(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): text (default), json, yaml, newick, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "extraction workers (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.keepTrivial, "keep-trivial", false, "count single-set partitions")
	cmd.Flags().IntVar(&opts.minSupport, "min-support", 0, "ignore partitions observed fewer times")
	cmd.Flags().IntVar(&opts.maxPartitions, "max-partitions", 0, "consider at most this many ranked partitions (0 = all)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "redis URL for the result cache")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log pipeline and cache events")

	return cmd
}

func (c *CLI) runInfer(cmd *cobra.Command, path string, opts inferOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	popts := pipelineOptions(cmd, cfg, opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.trace {
		observability.NewLogHooks(c.Logger).Register()
	}

	g, err := readGraph(ctx, cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cacheOptsFrom(cfg, opts.noCache, opts.redisURL))
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.infer(ctx, cmd.ErrOrStderr(), runner, g, popts, opts.output != "")
	if err != nil {
		return err
	}

	if opts.output == "" {
		out := cmd.OutOrStdout()
		for _, f := range popts.Formats {
			if _, err := out.Write(res.Artifacts[f]); err != nil {
				return err
			}
		}
		return nil
	}
	return writeArtifacts(cmd.ErrOrStderr(), res, popts.Formats, opts.output)
}

// infer runs the pipeline, showing a spinner when results go to files.
func (c *CLI) infer(ctx context.Context, status io.Writer, runner *pipeline.Runner, g *pograph.Graph, opts pipeline.Options, spin bool) (*pipeline.Result, error) {
	prog := newProgress(c.Logger)
	var spinner *Spinner
	if spin {
		spinner = newSpinner(ctx, status, fmt.Sprintf("Inferring groups for %d threads...", len(g.Threads)))
		spinner.Start()
	}

	res, err := runner.Infer(ctx, g, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Inference failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Inferred %d groups", len(res.Report.Groups)))
	return res, nil
}

// pipelineOptions layers explicitly set flags over the configuration file.
func pipelineOptions(cmd *cobra.Command, cfg *pipeline.Config, opts inferOpts) pipeline.Options {
	p := cfg.Options()
	flags := cmd.Flags()
	if flags.Changed("format") {
		p.Formats = parseFormats(opts.formats)
	}
	if flags.Changed("workers") {
		p.Workers = opts.workers
	}
	if flags.Changed("keep-trivial") {
		p.KeepTrivial = opts.keepTrivial
	}
	if flags.Changed("min-support") {
		p.MinSupport = opts.minSupport
	}
	if flags.Changed("max-partitions") {
		p.MaxPartitions = opts.maxPartitions
	}
	p.Refresh = opts.refresh
	return p
}

// readGraph loads a graph from path, from stdin when path is "-", or over
// HTTP when path is a URL.
func readGraph(ctx context.Context, stdin io.Reader, path string) (*pograph.Graph, error) {
	switch {
	case path == "-":
		return pograph.Load(stdin)
	case httputil.IsURL(path):
		data, err := httputil.NewFetcher().Get(ctx, path)
		if err != nil {
			return nil, err
		}
		return pograph.Load(bytes.NewReader(data))
	default:
		return pograph.LoadFile(path)
	}
}

// writeArtifacts writes each rendered format under base and reports the
// written files on status.
func writeArtifacts(status io.Writer, res *pipeline.Result, formats []string, base string) error {
	rep := res.Report
	printSuccess(status, "Inferred %d groups", len(rep.Groups))
	printStats(status, inferStats{
		threads:  len(rep.Threads),
		nodes:    rep.Stats.Nodes,
		distinct: rep.Stats.Distinct,
		applied:  rep.Stats.Applied,
		rejected: rep.Stats.Rejected,
		cached:   res.CacheHit,
	})
	printGroups(status, rep.Groups)
	if rep.Stats.Rejected > 0 {
		printWarning(status, "%d partitions conflicted with the tree and were rejected", rep.Stats.Rejected)
	}

	multiple := len(formats) > 1
	for _, f := range formats {
		path := outputPath(base, f, multiple)
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(status, path)
	}
	return nil
}
