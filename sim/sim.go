// Package sim runs the controller headless: a level, a scene and a scripted
// input source stepped at a fixed frame time.
package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/ecs/entity"
	"github.com/milk9111/fpscontroller/ecs/system"
	"github.com/milk9111/fpscontroller/levels"
	"github.com/milk9111/fpscontroller/physics"
)

const DefaultDT = 1.0 / 60.0

// Scenario describes one headless run.
type Scenario struct {
	Name   string  `yaml:"name" env:"NAME"`
	Level  string  `yaml:"level" env:"LEVEL" envDefault:"arena"`
	Scene  string  `yaml:"scene" env:"SCENE" envDefault:"scene.yaml"`
	Script string  `yaml:"script" env:"SCRIPT" envDefault:"walk_square"`
	Frames int     `yaml:"frames" env:"FRAMES" envDefault:"600"`
	DT     float64 `yaml:"dt" env:"DT"`
}

// Sample is the player state after one frame.
type Sample struct {
	Frame     int               `yaml:"frame"`
	Time      float64           `yaml:"time"`
	Position  [3]float64        `yaml:"position,flow"`
	Yaw       float64           `yaml:"yaw"`
	Pitch     float64           `yaml:"pitch"`
	Speed     float64           `yaml:"speed"`
	VelocityY float64           `yaml:"velocity_y"`
	Mode      string            `yaml:"mode"`
	Grounded  bool              `yaml:"grounded"`
	Probe     bool              `yaml:"probe"`
	Clip      string            `yaml:"clip,omitempty"`
	Params    map[string]string `yaml:"params,omitempty"`
}

type Trace struct {
	Scenario Scenario `yaml:"scenario"`
	Samples  []Sample `yaml:"samples"`
	Jumps    int      `yaml:"jumps"`
	Landings int      `yaml:"landings"`
}

// Last returns the final sample, or the zero sample for an empty trace.
func (t *Trace) Last() Sample {
	if t == nil || len(t.Samples) == 0 {
		return Sample{}
	}
	return t.Samples[len(t.Samples)-1]
}

// Run builds a fresh world for s and steps it s.Frames times. It stops early
// with ctx's error when ctx is cancelled.
func Run(ctx context.Context, s Scenario) (*Trace, error) {
	if s.DT <= 0 {
		s.DT = DefaultDT
	}
	if s.Frames < 0 {
		return nil, fmt.Errorf("sim: %s: negative frame count %d", s.Name, s.Frames)
	}

	lvl, err := levels.LoadLevelFromFS(s.Level)
	if err != nil {
		return nil, fmt.Errorf("sim: %s: %w", s.Name, err)
	}
	w, player, err := buildWorld(s, lvl)
	if err != nil {
		return nil, fmt.Errorf("sim: %s: %w", s.Name, err)
	}

	log := logrus.WithFields(logrus.Fields{"scenario": s.Name, "level": s.Level, "script": s.Script})
	log.Debug("sim: start")

	trace := &Trace{Scenario: s, Samples: make([]Sample, 0, s.Frames)}
	for frame := 0; frame < s.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return trace, err
		}
		w.Update(s.DT)
		for _, ev := range w.Events().Peek() {
			switch ev.Type {
			case ecs.EventJumped:
				trace.Jumps++
			case ecs.EventLanded:
				trace.Landings++
			}
		}
		trace.Samples = append(trace.Samples, sample(w, player, frame, float64(frame+1)*s.DT))
	}

	log.WithField("frames", s.Frames).Debug("sim: done")
	return trace, nil
}

func buildWorld(s Scenario, lvl *levels.Level) (*ecs.World, ecs.Entity, error) {
	cw := physics.NewCollisionWorldFromLevel(lvl)

	w := ecs.NewWorld()
	w.AddSystem(system.NewInputSystem(nil))
	w.AddSystem(system.NewPlayerControllerSystem(cw))
	w.AddSystem(system.NewFollowSystem())
	w.AddSystem(system.NewAnimationSystem())
	w.AddSystem(system.NewCameraSystem())

	if _, err := entity.BuildScene(w, s.Scene, lvl); err != nil {
		return nil, 0, err
	}
	player, _, ok := ecs.First(w, component.PlayerControllerComponent.Kind())
	if !ok {
		return nil, 0, fmt.Errorf("scene %s has no player controller", s.Scene)
	}
	if s.Script != "" {
		if err := ecs.Add(w, player, component.InputScriptComponent.Kind(), &component.InputScript{Path: s.Script}); err != nil {
			return nil, 0, err
		}
	}
	return w, player, nil
}

func sample(w *ecs.World, player ecs.Entity, frame int, t float64) Sample {
	out := Sample{Frame: frame, Time: t}
	if tr, ok := ecs.Get(w, player, component.TransformComponent.Kind()); ok {
		out.Position = [3]float64(tr.Position)
	}
	if pc, ok := ecs.Get(w, player, component.PlayerControllerComponent.Kind()); ok && pc.Controller != nil {
		st := pc.Controller.State
		out.Yaw, out.Pitch = st.Yaw, st.Pitch
		out.Speed = st.CurrentSpeed
		out.VelocityY = st.VelocityY
		out.Mode = st.Mode.String()
		out.Probe = st.Grounded
	}
	if cc, ok := ecs.Get(w, player, component.CharacterControllerComponent.Kind()); ok {
		out.Grounded = cc.Grounded
	}
	if state, ok := ecs.Get(w, player, component.AnimationStateComponent.Kind()); ok {
		out.Clip = state.Clip
	}
	if anim, ok := ecs.Get(w, player, component.AnimatorComponent.Kind()); ok && anim.Params != nil && anim.Params.Len() > 0 {
		out.Params = make(map[string]string, anim.Params.Len())
		for el := anim.Params.Front(); el != nil; el = el.Next() {
			out.Params[el.Key] = el.Value.String()
		}
	}
	return out
}
