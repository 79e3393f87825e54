package component

import "github.com/go-gl/mathgl/mgl64"

// CollisionFlags reports which sides of the capsule touched geometry during
// the last move.
type CollisionFlags uint8

const (
	CollidedBelow CollisionFlags = 1 << iota
	CollidedSides
	CollidedAbove
)

func (f CollisionFlags) Has(flag CollisionFlags) bool {
	return f&flag != 0
}

// CharacterController is the capsule the physics world sweeps through the
// level. The owning Transform position is the capsule bottom.
type CharacterController struct {
	Radius     float64
	Height     float64
	StepOffset float64
	Layer      uint

	Grounded bool
	Flags    CollisionFlags
	// Displacement is the total motion applied this frame after collision.
	Displacement mgl64.Vec3
}

var CharacterControllerComponent = NewComponent[CharacterController]("character_controller")
