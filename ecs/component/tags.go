package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]("player_tag")

type LookPivotTag struct{}

var LookPivotTagComponent = NewComponent[LookPivotTag]("look_pivot_tag")

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]("camera_tag")

// Name is the prefab or scene name used to resolve references between
// entities.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]("name")
