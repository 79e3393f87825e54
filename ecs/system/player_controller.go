package system

import (
	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/locomotion"
	"github.com/milk9111/fpscontroller/physics"
)

// PlayerControllerSystem steps every locomotion controller against the
// collision world and writes the resulting rotations back to the body and
// its look pivot.
type PlayerControllerSystem struct {
	Physics *physics.CollisionWorld
}

func NewPlayerControllerSystem(cw *physics.CollisionWorld) *PlayerControllerSystem {
	if cw == nil {
		cw = physics.NewCollisionWorld(nil)
	}
	return &PlayerControllerSystem{Physics: cw}
}

func (p *PlayerControllerSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach3(w,
		component.PlayerControllerComponent.Kind(),
		component.TransformComponent.Kind(),
		component.InputComponent.Kind(),
		func(e ecs.Entity, pc *component.PlayerController, t *component.Transform, in *component.Input) {
			if pc.Controller == nil {
				return
			}

			frame := locomotion.Frame{DT: dt}
			cc, hasCC := ecs.Get(w, e, component.CharacterControllerComponent.Kind())
			if hasCC {
				capsule := physics.Capsule{World: p.Physics, Pos: &t.Position, CC: cc}
				capsule.Begin()
				frame.Mover = capsule
				frame.Probe = capsule.Probe
			}
			if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
				frame.Animator = anim
			}

			out := pc.Controller.Step(locomotion.Input(*in), frame)
			t.Rotation = out.BodyRotation
			if !hasCC {
				// no capsule: motion is applied unobstructed
				t.Position = t.Position.Add(out.Horizontal).Add(out.Vertical)
			}

			if pivot, ok := ecs.Get(w, ecs.Entity(pc.Pivot), component.TransformComponent.Kind()); ok {
				pivot.Rotation = out.PivotRotation
				pivot.Position = t.Position.Add(pc.PivotOffset)
			}

			events := w.Events()
			if out.Jumped {
				events.Push(ecs.Event{Type: ecs.EventJumped, Data: e})
			}
			if out.ModeChanged {
				events.Push(ecs.Event{Type: ecs.EventModeChanged, Data: pc.Controller.State.Mode})
			}
			if hasCC {
				if cc.Grounded && !pc.WasGrounded {
					events.Push(ecs.Event{Type: ecs.EventLanded, Data: e})
				}
				pc.WasGrounded = cc.Grounded
			}
		})
}

// OnEnable re-binds every controller.
func (p *PlayerControllerSystem) OnEnable(w *ecs.World) {
	ecs.ForEach(w, component.PlayerControllerComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController) {
		if pc.Controller != nil {
			pc.Controller.Enable()
		}
	})
}

// OnDisable unbinds every controller, cancelling a running jump pulse.
func (p *PlayerControllerSystem) OnDisable(w *ecs.World) {
	ecs.ForEach(w, component.PlayerControllerComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController) {
		if pc.Controller == nil {
			return
		}
		var anim locomotion.Animator
		if a, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
			anim = a
		}
		pc.Controller.Disable(anim)
	})
}
