package component

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/locomotion"
)

// PlayerController hosts the locomotion controller for an entity. PivotName
// names the look-pivot entity that receives pitch and yaw; PivotOffset keeps
// it at a fixed height above the feet.
type PlayerController struct {
	Controller  *locomotion.Controller
	PivotName   string
	Pivot       uint64 // ecs.Entity
	PivotOffset mgl64.Vec3
	Prefab      string

	WasGrounded bool
}

var PlayerControllerComponent = NewComponent[PlayerController]("player_controller")
