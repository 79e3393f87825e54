package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/locomotion"
)

// InputTick is the clock an input source samples against.
type InputTick struct {
	Frame int
	Time  float64
	DT    float64
}

// InputSource produces one action sample per frame.
type InputSource interface {
	Sample(tick InputTick) (locomotion.Input, error)
}

// InputSystem writes a fresh sample into every Input component. Entities
// with an InputScript are driven by their own script; the rest share
// Source. A disabled InputBinding yields a zero sample.
type InputSystem struct {
	Source InputSource

	tick    InputTick
	scripts map[ecs.Entity]*ScriptSource
	failed  map[string]bool
}

func NewInputSystem(source InputSource) *InputSystem {
	return &InputSystem{Source: source}
}

func (i *InputSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}
	i.tick.DT = dt

	var shared locomotion.Input
	if i.Source != nil {
		sample, err := i.Source.Sample(i.tick)
		if err != nil {
			i.logOnce("source", err)
		}
		shared = sample
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		if binding, ok := ecs.Get(w, e, component.InputBindingComponent.Kind()); ok && !binding.Enabled {
			*input = component.Input{}
			return
		}
		if script, ok := ecs.Get(w, e, component.InputScriptComponent.Kind()); ok && script.Path != "" {
			*input = component.Input(i.sampleScript(e, script.Path))
			return
		}
		*input = component.Input(shared)
	})

	i.tick.Frame++
	i.tick.Time += dt
}

// Reload drops cached scripts so the next frame recompiles them.
func (i *InputSystem) Reload() {
	i.scripts = nil
	i.failed = nil
}

func (i *InputSystem) sampleScript(e ecs.Entity, path string) locomotion.Input {
	if i.scripts == nil {
		i.scripts = map[ecs.Entity]*ScriptSource{}
	}
	src, ok := i.scripts[e]
	if !ok || src.Path != path {
		loaded, err := LoadScriptSource(path)
		if err != nil {
			i.logOnce(path, err)
			return locomotion.Input{}
		}
		src = loaded
		i.scripts[e] = src
	}
	sample, err := src.Sample(i.tick)
	if err != nil {
		i.logOnce(path, err)
		return locomotion.Input{}
	}
	return sample
}

func (i *InputSystem) logOnce(key string, err error) {
	if i.failed == nil {
		i.failed = map[string]bool{}
	}
	if i.failed[key] {
		return
	}
	i.failed[key] = true
	logrus.WithField("source", key).WithError(err).Warn("input: sample failed")
}

// OnEnable binds input on every entity.
func (i *InputSystem) OnEnable(w *ecs.World) {
	setBindings(w, true)
}

// OnDisable unbinds input so the next samples read as zero.
func (i *InputSystem) OnDisable(w *ecs.World) {
	setBindings(w, false)
}

func setBindings(w *ecs.World, enabled bool) {
	ecs.ForEach(w, component.InputBindingComponent.Kind(), func(e ecs.Entity, b *component.InputBinding) {
		b.Enabled = enabled
	})
}
