package component

import "github.com/go-gl/mathgl/mgl64"

// Input stores the per-frame action sample for an entity.
type Input struct {
	Move   mgl64.Vec2
	Look   mgl64.Vec2
	Sprint bool
	Crouch bool
	Jump   bool
}

// InputBinding gates whether an entity receives device or script input.
// A disabled binding reads as a zero sample.
type InputBinding struct {
	Enabled bool
}

var InputComponent = NewComponent[Input]("input")

var InputBindingComponent = NewComponent[InputBinding]("input_binding")

// InputScript replaces device input with a script evaluated every frame.
type InputScript struct {
	Path string
}

var InputScriptComponent = NewComponent[InputScript]("input_script")
