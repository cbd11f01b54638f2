// Package engineconf holds the process-wide configuration for the
// execution core: the memory budget that drives the sort's spill
// decision, the default parallelism for BUILD/MERGE, and chunk sizing.
// It is constructed once at startup and passed by reference into
// operators, the same way the engine treats its buffer manager and
// function registry as process-wide services.
package engineconf

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v2"
)

// VectorSize is the build-time row-count cap for a Chunk (spec.md §3).
const VectorSize = 2048

// Config is the tunable knobs for the sort and aggregate pipeline.
type Config struct {
	// MemoryBudgetBytes bounds the in-memory working set SortCore's
	// MERGE state may hold before it must spill pages through the
	// buffer manager. Zero means "use DefaultMemoryBudgetBytes".
	MemoryBudgetBytes int64 `yaml:"memory_budget_bytes"`

	// SpillThresholdRows is a row-count threshold for the ordered
	// aggregate's MERGE+SCAN pass. Zero means "use default". Normalize
	// fills it in, but no operator in this module reads it:
	// OrderedAggregator.Finalize sorts each group's whole buffer once,
	// whatever its size.
	SpillThresholdRows int `yaml:"spill_threshold_rows"`

	// Parallelism is the number of concurrent local sort/BUILD states and
	// MERGE workers. Zero means GOMAXPROCS. Normalize fills it in, but no
	// operator in this module reads it: SortCore runs each MERGE round
	// on the calling goroutine.
	Parallelism int `yaml:"parallelism"`

	// MergeFanIn is `k` in the k-way merge (spec.md §4.3). Zero means
	// "use default".
	MergeFanIn int `yaml:"merge_fan_in"`

	// SpillDir is where the buffer manager creates backing files for
	// evicted pages. Empty means os.TempDir().
	SpillDir string `yaml:"spill_dir"`
}

const (
	DefaultMemoryBudgetBytes = 256 << 20
	DefaultSpillThresholdRows = 4 * VectorSize
	DefaultMergeFanIn        = 16
)

// Normalize fills zero-valued fields with defaults and returns the result;
// it does not mutate the receiver.
func (c Config) Normalize() Config {
	out := c
	if out.MemoryBudgetBytes <= 0 {
		out.MemoryBudgetBytes = DefaultMemoryBudgetBytes
	}
	if out.SpillThresholdRows <= 0 {
		out.SpillThresholdRows = DefaultSpillThresholdRows
	}
	if out.Parallelism <= 0 {
		out.Parallelism = runtime.GOMAXPROCS(0)
	}
	if out.MergeFanIn <= 0 {
		out.MergeFanIn = DefaultMergeFanIn
	}
	if out.SpillDir == "" {
		out.SpillDir = os.TempDir()
	}
	return out
}

// Load reads a Config from a YAML file, then normalizes it.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engineconf: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("engineconf: parsing %s: %w", path, err)
	}
	return c.Normalize(), nil
}

// Default returns a fully normalized Config with every field at its
// default value.
func Default() Config {
	return Config{}.Normalize()
}
