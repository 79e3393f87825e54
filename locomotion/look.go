package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/common"
)

const (
	MinPitch = -60.0
	MaxPitch = 60.0
)

var (
	worldUp      = mgl64.Vec3{0, 1, 0}
	worldRight   = mgl64.Vec3{1, 0, 0}
	worldForward = mgl64.Vec3{0, 0, 1}
)

// Look accumulates yaw and pitch in degrees.
type Look struct {
	Yaw   float64
	Pitch float64
}

// Apply adds one frame of look input and clamps pitch to [lo, hi].
func (l *Look) Apply(input mgl64.Vec2, sensitivity, dt, lo, hi float64) {
	l.Yaw += input.X() * sensitivity * dt
	l.Pitch -= input.Y() * sensitivity * dt
	l.Pitch = common.Clamp(l.Pitch, lo, hi)
}

// BodyRotation is the yaw-only rotation of the body.
func (l Look) BodyRotation() mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(l.Yaw), worldUp)
}

// PivotRotation is the combined yaw and pitch rotation of the look pivot.
func (l Look) PivotRotation() mgl64.Quat {
	pitch := mgl64.QuatRotate(mgl64.DegToRad(l.Pitch), worldRight)
	return l.BodyRotation().Mul(pitch)
}

// Basis returns the forward, right and up axes of rot.
func Basis(rot mgl64.Quat) (forward, right, up mgl64.Vec3) {
	return rot.Rotate(worldForward), rot.Rotate(worldRight), rot.Rotate(worldUp)
}

// LookFromRotation recovers yaw and pitch from a rotation built by
// PivotRotation. Roll is discarded.
func LookFromRotation(rot mgl64.Quat) Look {
	f := rot.Rotate(worldForward)
	return Look{
		Yaw:   mgl64.RadToDeg(math.Atan2(f.X(), f.Z())),
		Pitch: mgl64.RadToDeg(-math.Asin(common.Clamp(f.Y(), -1, 1))),
	}
}
