package setops

import (
	"errors"
	"flag"
	"time"
)

// Config configures an [Evaluator].
type Config struct {
	// MaxParallelism is the number of chunk pairs of one operation that may be
	// evaluated concurrently.
	MaxParallelism int `yaml:"max_parallelism"`

	// SlowOperationThreshold is the duration after which an operation is logged
	// as slow. Zero disables slow operation logging.
	SlowOperationThreshold time.Duration `yaml:"slow_operation_threshold"`
}

// RegisterFlags registers flags for cfg with the default prefix.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("setops.", f)
}

// RegisterFlagsWithPrefix registers flags for cfg, prefixing each flag name
// with prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.IntVar(&cfg.MaxParallelism, prefix+"max-parallelism", 1, "Maximum number of aligned chunk pairs evaluated concurrently by a single set operation.")
	f.DurationVar(&cfg.SlowOperationThreshold, prefix+"slow-operation-threshold", 10*time.Second, "Set operations running longer than this are logged as slow. 0 disables slow operation logging.")
}

// Validate returns an error if cfg is invalid.
func (cfg *Config) Validate() error {
	if cfg.MaxParallelism < 1 {
		return errors.New("max parallelism must be at least 1")
	}
	if cfg.SlowOperationThreshold < 0 {
		return errors.New("slow operation threshold must not be negative")
	}
	return nil
}
