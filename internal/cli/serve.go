package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/poatree/pkg/api"
	"github.com/matzehuels/poatree/pkg/observability"
)

const defaultAddr = ":8080"

// serveCommand creates the serve command, which exposes the pipeline over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
		maxBody  int64
		timeout  time.Duration
		trace    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inference API over HTTP",
		Long: `Serve the inference API over HTTP.

Endpoints:
  GET  /healthz      liveness probe
  GET  /v1/version   build information
  POST /v1/infer     infer groups for the posted graph

/v1/infer accepts the query parameters format, min_support, max_partitions,
keep_trivial and refresh.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") && cfg.Server.Addr != "" {
				addr = cfg.Server.Addr
			}
			if trace {
				observability.NewLogHooks(c.Logger).Register()
			}

			co := cacheOptsFrom(cfg, noCache, redisURL)
			co.prefix = "api:"
			runner, err := c.newRunner(cmd.Context(), co)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(runner, c.Logger, api.WithMaxBodyBytes(maxBody), api.WithTimeout(timeout))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the result cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().Int64Var(&maxBody, "max-body", api.DefaultMaxBodyBytes, "maximum graph size in bytes")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-request timeout")
	cmd.Flags().BoolVar(&trace, "trace", false, "log pipeline, cache, and request events")

	return cmd
}
