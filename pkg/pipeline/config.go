package pipeline

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/poatree/pkg/errors"
)

// Config is the on-disk configuration file:
//
//	[extract]
//	workers = 8
//	keep_trivial = false
//
//	[assemble]
//	min_support = 2
//	max_partitions = 500
//
//	[output]
//	formats = ["text", "newick"]
//
//	[cache]
//	disabled = false
//	dir = "/var/cache/poatree"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Extract struct {
		Workers     int  `toml:"workers"`
		KeepTrivial bool `toml:"keep_trivial"`
	} `toml:"extract"`

	Assemble struct {
		MinSupport    int `toml:"min_support"`
		MaxPartitions int `toml:"max_partitions"`
	} `toml:"assemble"`

	Output struct {
		Formats []string `toml:"formats"`
	} `toml:"output"`

	Cache struct {
		Disabled bool   `toml:"disabled"`
		Dir      string `toml:"dir"`
		RedisURL string `toml:"redis_url"`
	} `toml:"cache"`

	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return ParseConfig(string(data))
}

// ParseConfig decodes TOML configuration. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func ParseConfig(data string) (*Config, error) {
	var c Config
	md, err := toml.Decode(data, &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	opts := c.Options()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if c.Cache.RedisURL != "" {
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Options converts the configuration into pipeline options. Zero values are
// left for SetDefaults.
func (c *Config) Options() Options {
	return Options{
		Workers:       c.Extract.Workers,
		KeepTrivial:   c.Extract.KeepTrivial,
		MinSupport:    c.Assemble.MinSupport,
		MaxPartitions: c.Assemble.MaxPartitions,
		Formats:       append([]string(nil), c.Output.Formats...),
	}
}
