package locomotion

const (
	// Gravity is the constant downward acceleration in m/s².
	Gravity = -9.81
	// GroundedVelocity keeps the capsule pressed into the floor so the
	// mover keeps reporting ground contact.
	GroundedVelocity = -1.0
	// JumpPulseDuration is how long isJumping stays raised after a jump.
	JumpPulseDuration = 0.1
)

// IntegrateVertical advances the vertical velocity by one frame.
func IntegrateVertical(v float64, grounded bool, gravity, multiplier, dt float64) float64 {
	if grounded && v < 0 {
		return GroundedVelocity
	}
	return v + gravity*dt*multiplier
}

// ApplyJump overwrites v with force on a grounded jump press.
func ApplyJump(v float64, pressed, grounded bool, force float64) (float64, bool) {
	if pressed && grounded {
		return force, true
	}
	return v, false
}
