package component

// FollowPosition copies the target's position onto this entity every frame.
// TargetName is resolved to Target when the scene is built.
type FollowPosition struct {
	TargetName string
	Target     uint64 // ecs.Entity
}

// FollowRotation copies the target's rotation onto this entity every frame.
type FollowRotation struct {
	TargetName string
	Target     uint64 // ecs.Entity
}

var FollowPositionComponent = NewComponent[FollowPosition]("follow_position")

var FollowRotationComponent = NewComponent[FollowRotation]("follow_rotation")
