package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Level != "arena" || cfg.Scene != "scene.yaml" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Scripts) != 1 || cfg.Scripts[0] != "walk_square" {
		t.Fatalf("expected default script, got %v", cfg.Scripts)
	}
	if cfg.Frames != 600 || cfg.Workers != 4 {
		t.Fatalf("unexpected numeric defaults %+v", cfg)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("FPS_SIM_LEVEL", "flat")
	t.Setenv("FPS_SIM_SCRIPTS", "jump_loop,look_around")
	t.Setenv("FPS_SIM_FRAMES", "30")

	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-frames", "45", "-workers", "2"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Level != "flat" {
		t.Fatalf("expected env level, got %q", cfg.Level)
	}
	if cfg.Frames != 45 || cfg.Workers != 2 {
		t.Fatalf("expected flags to override env, got %+v", cfg)
	}
	scenarios := cfg.Scenarios()
	if len(scenarios) != 2 || scenarios[1].Script != "look_around" || scenarios[1].Frames != 45 {
		t.Fatalf("unexpected scenarios %+v", scenarios)
	}
}

func TestRunWritesTrace(t *testing.T) {
	fs := flag.NewFlagSet("sim", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-level", "flat", "-scripts", "jump_loop", "-frames", "20", "-out", "-"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	var buf bytes.Buffer
	if err := Run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}

	var traces []struct {
		Scenario struct {
			Script string `yaml:"script"`
		} `yaml:"scenario"`
		Samples []map[string]any `yaml:"samples"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &traces); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if len(traces) != 1 || traces[0].Scenario.Script != "jump_loop" || len(traces[0].Samples) != 20 {
		t.Fatalf("unexpected trace %+v", traces)
	}
}

func TestRunSummary(t *testing.T) {
	cfg := Config{Level: "flat", Scene: "scene.yaml", Scripts: []string{"walk_square"}, Frames: 10, DT: 0.02, Workers: 1}

	var buf bytes.Buffer
	if err := Run(context.Background(), cfg, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "walk_square") || !strings.Contains(buf.String(), "frames=10") {
		t.Fatalf("unexpected summary %q", buf.String())
	}

	if err := Run(context.Background(), Config{}, &buf); err == nil {
		t.Fatalf("expected error without scripts")
	}
}
