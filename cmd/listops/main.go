// Command listops applies set operations between two list columns read from
// JSON or Arrow IPC files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/flagext"
	dslog "github.com/grafana/dskit/log"
	"gopkg.in/yaml.v2"

	"github.com/grafana/listops/pkg/setops"
)

// config is the contents of the file passed with --config.file.
type config struct {
	Evaluator setops.Config `yaml:"evaluator"`
}

func (cfg *config) RegisterFlags(f *flag.FlagSet) {
	cfg.Evaluator.RegisterFlags(f)
}

// loadConfig returns the default config overlaid with the YAML file at path,
// if path is set.
func loadConfig(path string) (config, error) {
	var cfg config
	flagext.DefaultValues(&cfg)

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Evaluator.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid evaluator config: %w", err)
	}
	return cfg, nil
}

// globalFlags are flags shared by every command.
type globalFlags struct {
	configFile string
	logLevel   dslog.Level
}

func (g *globalFlags) register(app *kingpin.Application) {
	app.Flag("config.file", "YAML file to load the evaluator configuration from.").StringVar(&g.configFile)
	app.Flag("log.level", "Only log messages with the given severity or above. Valid levels: [debug, info, warn, error]").Default("warn").SetValue(&g.logLevel)
}

func (g *globalFlags) logger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, g.logLevel.Option)
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}

func main() {
	app := kingpin.New("listops", "Apply set operations between the rows of two list columns.")
	app.HelpFlag.Short('h')

	var global globalFlags
	global.register(app)

	addApplyCommand(app, &global)
	addOperationsCommand(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}

func exitWithErr(err error) {
	fmt.Fprintf(os.Stderr, "listops: %s\n", err)
	os.Exit(1)
}
