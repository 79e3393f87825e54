package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/fpscontroller/locomotion"
	"github.com/milk9111/fpscontroller/prefabs"
)

var scriptOutputs = []string{"move_x", "move_y", "look_x", "look_y", "sprint", "crouch", "jump"}

// ScriptSource evaluates a tengo script once per frame. The script reads
// frame, time and dt and assigns the action globals; anything it leaves
// unassigned reads as zero.
type ScriptSource struct {
	Path     string
	compiled *tengo.Compiled
}

// LoadScriptSource compiles a script from prefabs/scripts.
func LoadScriptSource(path string) (*ScriptSource, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("input script: load %s: %w", path, err)
	}
	return NewScriptSource(path, src)
}

func NewScriptSource(name string, src []byte) (*ScriptSource, error) {
	script := tengo.NewScript(src)
	_ = script.Add("frame", 0)
	_ = script.Add("time", 0.0)
	_ = script.Add("dt", 0.0)
	for _, out := range scriptOutputs {
		_ = script.Add(out, zeroOutput(out))
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input script: compile %s: %w", name, err)
	}
	return &ScriptSource{Path: name, compiled: compiled}, nil
}

func (s *ScriptSource) Sample(tick InputTick) (locomotion.Input, error) {
	if s == nil || s.compiled == nil {
		return locomotion.Input{}, fmt.Errorf("input script: not compiled")
	}
	if err := s.compiled.Set("frame", tick.Frame); err != nil {
		return locomotion.Input{}, err
	}
	if err := s.compiled.Set("time", tick.Time); err != nil {
		return locomotion.Input{}, err
	}
	if err := s.compiled.Set("dt", tick.DT); err != nil {
		return locomotion.Input{}, err
	}
	for _, out := range scriptOutputs {
		if err := s.compiled.Set(out, zeroOutput(out)); err != nil {
			return locomotion.Input{}, err
		}
	}
	if err := s.compiled.Run(); err != nil {
		return locomotion.Input{}, fmt.Errorf("input script: run %s: %w", s.Path, err)
	}

	c := s.compiled
	return locomotion.Input{
		Move:   [2]float64{c.Get("move_x").Float(), c.Get("move_y").Float()},
		Look:   [2]float64{c.Get("look_x").Float(), c.Get("look_y").Float()},
		Sprint: c.Get("sprint").Bool(),
		Crouch: c.Get("crouch").Bool(),
		Jump:   c.Get("jump").Bool(),
	}, nil
}

func zeroOutput(name string) any {
	switch name {
	case "sprint", "crouch", "jump":
		return false
	}
	return 0.0
}
