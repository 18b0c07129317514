package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/poatree/pkg/errors"
)

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("empty options should be valid: %v", err)
	}

	if opts.Workers != DefaultWorkers() {
		t.Errorf("Workers = %d, want %d", opts.Workers, DefaultWorkers())
	}
	if opts.MinSupport != DefaultMinSupport {
		t.Errorf("MinSupport = %d, want %d", opts.MinSupport, DefaultMinSupport)
	}
	if !reflect.DeepEqual(opts.Formats, []string{DefaultFormat}) {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative workers", Options{Workers: -1}, errors.ErrCodeInvalidConfig},
		{"negative min support", Options{MinSupport: -2}, errors.ErrCodeInvalidConfig},
		{"negative max partitions", Options{MaxPartitions: -1}, errors.ErrCodeInvalidConfig},
		{"unknown format", Options{Formats: []string{"text", "png"}}, errors.ErrCodeUnsupported},
		{"valid", Options{Workers: 2, MinSupport: 3, MaxPartitions: 10, Formats: []string{"json", "newick"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{MinSupport: 2}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Formats

	opts.Formats = nil
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Formats != nil {
		t.Errorf("second call should be a no-op, Formats = %v (first %v)", opts.Formats, first)
	}
}

func TestResultKeyOpts(t *testing.T) {
	opts := Options{KeepTrivial: true, MinSupport: 2, MaxPartitions: 7, Workers: 3}
	got := opts.ResultKeyOpts()
	if !got.KeepTrivial || got.MinSupport != 2 || got.MaxPartitions != 7 {
		t.Errorf("ResultKeyOpts() = %+v", got)
	}
}

func TestParseConfig(t *testing.T) {
	c, err := ParseConfig(`
[extract]
workers = 8
keep_trivial = true

[assemble]
min_support = 2
max_partitions = 50

[output]
formats = ["text", "newick"]

[cache]
dir = "/tmp/poatree"
redis_url = "redis://localhost:6379/0"

[server]
addr = ":9090"
`)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	want := Options{
		Workers:       8,
		KeepTrivial:   true,
		MinSupport:    2,
		MaxPartitions: 50,
		Formats:       []string{"text", "newick"},
	}
	if got := c.Options(); !reflect.DeepEqual(got, want) {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}
	if c.Cache.Dir != "/tmp/poatree" || c.Server.Addr != ":9090" {
		t.Errorf("cache/server = %+v / %+v", c.Cache, c.Server)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "[extract\n", errors.ErrCodeInvalidConfig},
		{"unknown key", "[extract]\nthreads = 3\n", errors.ErrCodeInvalidConfig},
		{"unknown table", "[render]\nstyle = \"x\"\n", errors.ErrCodeInvalidConfig},
		{"wrong type", "[assemble]\nmin_support = \"two\"\n", errors.ErrCodeInvalidConfig},
		{"negative", "[assemble]\nmax_partitions = -1\n", errors.ErrCodeInvalidConfig},
		{"format", "[output]\nformats = [\"gif\"]\n", errors.ErrCodeUnsupported},
		{"redis url", "[cache]\nredis_url = \"localhost:6379\"\n", errors.ErrCodeInvalidURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(tt.data)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poatree.toml")
	if err := os.WriteFile(path, []byte("[assemble]\nmin_support = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.Assemble.MinSupport != 3 {
		t.Errorf("MinSupport = %d, want 3", c.Assemble.MinSupport)
	}

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}
