package component

import "github.com/go-gl/mathgl/mgl64"

// AnimationState is the clip an animation state machine would play for the
// current Animator parameters.
type AnimationState struct {
	Clip  string
	Time  float64 // seconds since Clip started
	Blend mgl64.Vec2
}

var AnimationStateComponent = NewComponent[AnimationState]("animation_state")
