// Command simulate replays a YAML input scenario against the player core
// without a window and prints a per-tick trace.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/milk9111/parkour/prefabs"
)

// Config holds simulate command configuration.
type Config struct {
	Scenario   string `env:"PARKOUR_SCENARIO"`
	PrefabDir  string `env:"PARKOUR_PREFAB_DIR"   envDefault:"prefabs"`
	TraceEvery int    `env:"PARKOUR_TRACE_EVERY"`
	Assertions bool   `env:"PARKOUR_SIM_ASSERT"   envDefault:"true"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario yaml file")
	fs.StringVar(&cfg.PrefabDir, "prefabs", cfg.PrefabDir, "directory that overrides the embedded prefabs")
	fs.IntVar(&cfg.TraceEvery, "trace-every", cfg.TraceEvery, "trace every n ticks (overrides the scenario)")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "fail when expectations are not met (disable to log them)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Scenario == "" && fs.NArg() > 0 {
		cfg.Scenario = fs.Arg(0)
	}
	return cfg, nil
}

// Run executes one scenario.
func Run(cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errNoScenario
	}
	prefabs.SetDiskDir(cfg.PrefabDir)

	sc, err := LoadScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	if cfg.TraceEvery > 0 {
		sc.TraceEvery = cfg.TraceEvery
	}

	res, err := Simulate(sc, out)
	if err != nil {
		return err
	}
	if err := sc.Expect.Check(res); err != nil {
		if cfg.Assertions {
			return err
		}
		log.New(errOut, "", 0).Printf("simulate: %v", err)
	}
	return nil
}

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := Run(cfg, os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}
