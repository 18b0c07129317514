// Package cli implements the poatree command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/poatree/pkg/buildinfo"
	"github.com/matzehuels/poatree/pkg/cache"
	"github.com/matzehuels/poatree/pkg/errors"
	"github.com/matzehuels/poatree/pkg/pipeline"
	"github.com/matzehuels/poatree/pkg/report"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "poatree"

	// configFile is looked up under the XDG config directory when --config
	// is not given.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "poatree infers ancestry groupings from partial order alignments",
		Long: `poatree reads a partial order alignment graph, counts the thread
partitions it implies, and greedily assembles them into an ancestry tree.
The leaf groups of that tree are the inferred groupings of the input sequences.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/poatree/config.toml)")

	root.AddCommand(c.inferCommand())
	root.AddCommand(c.partitionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the --config file, or the default config file if it
// exists. A missing default file yields an empty configuration.
func (c *CLI) loadConfig() (*pipeline.Config, error) {
	if c.configPath != "" {
		return pipeline.LoadConfig(c.configPath)
	}
	dir, err := configDir()
	if err != nil {
		return &pipeline.Config{}, nil
	}
	cfg, err := pipeline.LoadConfig(filepath.Join(dir, configFile))
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		return &pipeline.Config{}, nil
	}
	return cfg, err
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOpts selects the cache backend for a runner.
type cacheOpts struct {
	disabled bool
	dir      string
	redisURL string
	prefix   string
}

// cacheOptsFrom merges the [cache] table of cfg with flag overrides.
func cacheOptsFrom(cfg *pipeline.Config, noCache bool, redisURL string) cacheOpts {
	o := cacheOpts{
		disabled: noCache || cfg.Cache.Disabled,
		dir:      cfg.Cache.Dir,
		redisURL: cfg.Cache.RedisURL,
	}
	if redisURL != "" {
		o.redisURL = redisURL
	}
	return o
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, o cacheOpts) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, o)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if o.prefix != "" {
		keyer = cache.NewScopedKeyer(nil, o.prefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, o cacheOpts) (cache.Cache, error) {
	if o.disabled {
		return cache.NewNullCache(), nil
	}
	if o.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, o.redisURL)
		if err != nil {
			if stderrors.Is(err, cache.ErrUnavailable) {
				c.Logger.Warn("redis unavailable, caching disabled", "err", err)
				return cache.NewNullCache(), nil
			}
			return nil, err
		}
		return rc, nil
	}
	dir := o.dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/poatree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/poatree/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	formats := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// outputPath returns the file a rendered format is written to. A single
// format goes to base as given; several formats share base with their own
// extension.
func outputPath(base, format string, multiple bool) string {
	if !multiple {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "." + extension(format)
}

func extension(format string) string {
	switch format {
	case report.FormatText:
		return "txt"
	case report.FormatNewick:
		return "nwk"
	case report.FormatDOT:
		return "dot"
	default:
		return format
	}
}
