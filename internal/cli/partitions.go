package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poatree/pkg/partition"
	"github.com/matzehuels/poatree/pkg/pipeline"
)

// partitionsCommand creates the partitions command, which prints the ranked
// partitions a graph implies without assembling a tree.
func (c *CLI) partitionsCommand() *cobra.Command {
	var opts inferOpts

	cmd := &cobra.Command{
		Use:   "partitions [file]",
		Short: "List the ranked partitions of a POA graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return c.runPartitions(cmd, path, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "extraction workers (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.keepTrivial, "keep-trivial", false, "count single-set partitions")
	cmd.Flags().IntVar(&opts.minSupport, "min-support", 0, "hide partitions observed fewer times")
	cmd.Flags().IntVarP(&opts.maxPartitions, "limit", "n", 0, "show at most this many partitions (0 = all)")

	return cmd
}

func (c *CLI) runPartitions(cmd *cobra.Command, path string, opts inferOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := pipelineOptions(cmd, cfg, opts)
	if cmd.Flags().Changed("limit") {
		popts.MaxPartitions = opts.maxPartitions
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	g, err := readGraph(cmd.Context(), cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	m, err := runner.Extract(cmd.Context(), g, popts)
	if err != nil {
		return err
	}

	entries := pipeline.Candidates(m, popts)
	writePartitions(cmd.OutOrStdout(), entries, g.ThreadNames())
	c.Logger.Debug("partitions", "distinct", m.Len(), "observed", m.Total(), "shown", len(entries))
	return nil
}

// writePartitions prints one "count<TAB>partition" line per entry.
func writePartitions(w io.Writer, entries []partition.Entry, names []string) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", StyleNumber.Render(fmt.Sprint(e.Count)), e.Partition.Format(names))
	}
}
