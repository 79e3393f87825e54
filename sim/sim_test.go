package sim

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRunWalksAndStaysOnGround(t *testing.T) {
	trace, err := Run(context.Background(), Scenario{
		Name:   "walk",
		Level:  "flat",
		Scene:  "scene.yaml",
		Script: "walk_square",
		Frames: 300,
		DT:     0.02,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(trace.Samples) != 300 {
		t.Fatalf("expected 300 samples, got %d", len(trace.Samples))
	}

	last := trace.Last()
	if !last.Grounded || last.Position[1] != 0 {
		t.Fatalf("expected player on the floor, got %+v", last)
	}
	if math.Hypot(last.Position[0], last.Position[2]) < 1 {
		t.Fatalf("expected player to have walked away from spawn, got %v", last.Position)
	}
	if last.Yaw == 0 {
		t.Fatalf("expected the script to turn the player")
	}
	if trace.Jumps != 0 {
		t.Fatalf("expected no jumps, got %d", trace.Jumps)
	}
	if _, ok := last.Params["isWalking"]; !ok {
		t.Fatalf("expected animation parameters in the trace, got %v", last.Params)
	}
	if math.Abs(last.Time-6) > 1e-9 {
		t.Fatalf("expected 6s of simulated time, got %v", last.Time)
	}
}

func TestRunJumpLoop(t *testing.T) {
	trace, err := Run(context.Background(), Scenario{
		Name:   "jumps",
		Level:  "flat",
		Scene:  "scene.yaml",
		Script: "jump_loop",
		Frames: 200,
		DT:     0.02,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if trace.Jumps == 0 || trace.Landings < trace.Jumps {
		t.Fatalf("expected jumps followed by landings, got %d jumps %d landings", trace.Jumps, trace.Landings)
	}

	airborne := false
	for _, s := range trace.Samples {
		if s.Position[1] > 0.5 {
			airborne = true
		}
		if s.Pitch < -60 || s.Pitch > 60 {
			t.Fatalf("pitch out of range at frame %d: %v", s.Frame, s.Pitch)
		}
	}
	if !airborne {
		t.Fatalf("expected the player to leave the ground")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		s    Scenario
		want string
	}{
		{"missing level", Scenario{Name: "x", Level: "nowhere", Scene: "scene.yaml", Frames: 1}, "nowhere"},
		{"missing scene", Scenario{Name: "x", Level: "flat", Scene: "nowhere.yaml", Frames: 1}, "nowhere.yaml"},
		{"negative frames", Scenario{Name: "x", Level: "flat", Scene: "scene.yaml", Frames: -1}, "negative frame count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.s)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trace, err := Run(ctx, Scenario{Name: "c", Level: "flat", Scene: "scene.yaml", Frames: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(trace.Samples) != 0 {
		t.Fatalf("expected no samples after cancel, got %d", len(trace.Samples))
	}
}

func TestRunBatchMatchesSequential(t *testing.T) {
	scenarios := []Scenario{
		{Name: "a", Level: "arena", Scene: "scene.yaml", Script: "walk_square", Frames: 120, DT: 0.02},
		{Name: "b", Level: "flat", Scene: "scene_basic.yaml", Script: "jump_loop", Frames: 120, DT: 0.02},
		{Name: "c", Level: "arena", Scene: "scene.yaml", Script: "look_around", Frames: 120, DT: 0.02},
		{Name: "bad", Level: "nowhere", Scene: "scene.yaml", Frames: 1},
	}

	results, err := RunBatch(context.Background(), scenarios, 3)
	if err == nil || !strings.Contains(err.Error(), "nowhere") {
		t.Fatalf("expected joined error for the bad scenario, got %v", err)
	}
	if len(results) != len(scenarios) {
		t.Fatalf("expected %d results, got %d", len(scenarios), len(results))
	}

	for i, s := range scenarios[:3] {
		r := results[i]
		if r.Err != nil || r.Scenario.Name != s.Name {
			t.Fatalf("result %d: unexpected %+v", i, r)
		}
		want, err := Run(context.Background(), s)
		if err != nil {
			t.Fatalf("sequential %s: %v", s.Name, err)
		}
		if r.Trace.Last().Position != want.Last().Position || r.Trace.Last().Yaw != want.Last().Yaw {
			t.Fatalf("%s: batch and sequential runs differ: %+v vs %+v", s.Name, r.Trace.Last(), want.Last())
		}
	}
}
