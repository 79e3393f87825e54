package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/ecs/component"
)

// Capsule binds a character controller and its position to a collision
// world for one frame of moves.
type Capsule struct {
	World *CollisionWorld
	Pos   *mgl64.Vec3
	CC    *component.CharacterController
}

// Begin clears the per-frame collision results.
func (c Capsule) Begin() {
	if c.CC == nil {
		return
	}
	c.CC.Flags = 0
	c.CC.Displacement = mgl64.Vec3{}
}

// Move sweeps the capsule. Grounded follows the flags of the latest move.
func (c Capsule) Move(motion mgl64.Vec3) {
	if c.World == nil || c.CC == nil || c.Pos == nil {
		return
	}
	before := *c.Pos
	flags := c.World.Move(c.Pos, c.CC, motion)
	c.CC.Flags |= flags
	c.CC.Grounded = flags.Has(component.CollidedBelow)
	c.CC.Displacement = c.CC.Displacement.Add(c.Pos.Sub(before))
}

func (c Capsule) IsGrounded() bool {
	return c.CC != nil && c.CC.Grounded
}

// Probe checks a sphere at the capsule's feet.
func (c Capsule) Probe(radius float64, mask uint) bool {
	if c.World == nil || c.Pos == nil {
		return false
	}
	return c.World.CheckSphere(*c.Pos, radius, mask)
}
