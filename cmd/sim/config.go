package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/fpscontroller/sim"
)

// Config holds the sim command configuration. Environment variables seed
// the defaults and flags override them.
type Config struct {
	Level   string        `env:"FPS_SIM_LEVEL"   envDefault:"arena"`
	Scene   string        `env:"FPS_SIM_SCENE"   envDefault:"scene.yaml"`
	Scripts []string      `env:"FPS_SIM_SCRIPTS" envDefault:"walk_square" envSeparator:","`
	Frames  int           `env:"FPS_SIM_FRAMES"  envDefault:"600"`
	DT      float64       `env:"FPS_SIM_DT"      envDefault:"0.016666666666666666"`
	Workers int           `env:"FPS_SIM_WORKERS" envDefault:"4"`
	Out     string        `env:"FPS_SIM_OUT"`
	Timeout time.Duration `env:"FPS_SIM_TIMEOUT" envDefault:"30s"`
	Verbose bool          `env:"FPS_SIM_VERBOSE"`
}

// ParseConfig parses the environment, then flags, into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	scripts := strings.Join(cfg.Scripts, ",")
	fs.StringVar(&cfg.Level, "level", cfg.Level, "level name under levels/")
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "scene prefab listing the entities to spawn")
	fs.StringVar(&scripts, "scripts", scripts, "comma-separated input scripts, one run each")
	fs.IntVar(&cfg.Frames, "frames", cfg.Frames, "frames to simulate per run")
	fs.Float64Var(&cfg.DT, "dt", cfg.DT, "fixed frame time in seconds")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent runs")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "write the YAML trace to this file (- for stdout); empty prints a summary")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall time limit")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Scripts = nil
	for _, s := range strings.Split(scripts, ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Scripts = append(cfg.Scripts, s)
		}
	}
	return cfg, nil
}

// Scenarios expands the config into one scenario per script.
func (c Config) Scenarios() []sim.Scenario {
	out := make([]sim.Scenario, 0, len(c.Scripts))
	for _, script := range c.Scripts {
		out = append(out, sim.Scenario{
			Name:   script,
			Level:  c.Level,
			Scene:  c.Scene,
			Script: script,
			Frames: c.Frames,
			DT:     c.DT,
		})
	}
	return out
}

// Run executes every scenario and writes either the traces or a summary.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if len(cfg.Scripts) == 0 {
		return errors.New("at least one script is required")
	}
	if cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	started := time.Now()
	results, err := sim.RunBatch(ctx, cfg.Scenarios(), cfg.Workers)
	logrus.WithFields(logrus.Fields{
		"runs":    len(results),
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Info("sim: finished")
	if err != nil {
		return err
	}

	switch cfg.Out {
	case "":
		return writeSummary(out, results)
	case "-":
		return writeTraces(out, results)
	default:
		f, err := os.Create(cfg.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", cfg.Out, err)
		}
		if err := writeTraces(f, results); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
}

func writeTraces(w io.Writer, results []sim.Result) error {
	traces := make([]*sim.Trace, 0, len(results))
	for _, r := range results {
		traces = append(traces, r.Trace)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(traces); err != nil {
		return fmt.Errorf("encode traces: %w", err)
	}
	return enc.Close()
}

func writeSummary(w io.Writer, results []sim.Result) error {
	for _, r := range results {
		last := r.Trace.Last()
		if _, err := fmt.Fprintf(w, "%-12s frames=%d jumps=%d landings=%d pos=(%.2f, %.2f, %.2f) yaw=%.1f pitch=%.1f mode=%s\n",
			r.Scenario.Name, len(r.Trace.Samples), r.Trace.Jumps, r.Trace.Landings,
			last.Position[0], last.Position[1], last.Position[2], last.Yaw, last.Pitch, last.Mode); err != nil {
			return err
		}
	}
	return nil
}
