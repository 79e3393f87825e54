package component

// Camera is the top-down debug view. It follows TargetName on the XZ plane.
type Camera struct {
	TargetName string
	Zoom       float64
	Smoothness float64
	X, Z       float64
}

var CameraComponent = NewComponent[Camera]("camera")
