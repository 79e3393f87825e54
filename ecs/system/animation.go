package system

import (
	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/locomotion"
)

const (
	ClipIdle       = "idle"
	ClipWalk       = "walk"
	ClipRun        = "run"
	ClipCrouchIdle = "crouch_idle"
	ClipCrouchWalk = "crouch_walk"
	ClipJump       = "jump"
	ClipFall       = "fall"

	moveBlendThreshold = 0.1
)

// AnimationSystem resolves Animator parameters into a clip and blend
// position, the way a locomotion blend tree would read them.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.AnimatorComponent.Kind(), component.AnimationStateComponent.Kind(),
		func(e ecs.Entity, anim *component.Animator, state *component.AnimationState) {
			blend := [2]float64{anim.Float(locomotion.ParamVelocityZ), anim.Float(locomotion.ParamVelocityY)}
			clip := SelectClip(anim, blend)
			if clip != state.Clip {
				state.Clip = clip
				state.Time = 0
			} else {
				state.Time += dt
			}
			state.Blend = blend
		})
}

// SelectClip picks the clip for a parameter table. Jumping wins, then
// airborne, then the movement mode.
func SelectClip(anim *component.Animator, blend [2]float64) string {
	moving := blend[0]*blend[0]+blend[1]*blend[1] > moveBlendThreshold*moveBlendThreshold
	switch {
	case anim.Bool(locomotion.ParamIsJumping):
		return ClipJump
	case !anim.Bool(locomotion.ParamIsGrounded):
		return ClipFall
	case anim.Bool(locomotion.ParamIsCrouching):
		if moving {
			return ClipCrouchWalk
		}
		return ClipCrouchIdle
	case !moving:
		return ClipIdle
	case anim.Bool(locomotion.ParamIsSprinting):
		return ClipRun
	}
	return ClipWalk
}
