package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SmoothDamp moves current toward target with a critically damped spring.
// velocity carries the spring state between frames. maxSpeed <= 0 means
// unlimited.
func SmoothDamp(current, target mgl64.Vec2, velocity *mgl64.Vec2, smoothTime, maxSpeed, dt float64) mgl64.Vec2 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current.Sub(target)
	original := target

	if maxSpeed > 0 {
		maxChange := maxSpeed * smoothTime
		if l := change.Len(); l > maxChange {
			change = change.Mul(maxChange / l)
		}
	}
	target = current.Sub(change)

	temp := velocity.Add(change.Mul(omega)).Mul(dt)
	*velocity = velocity.Sub(temp.Mul(omega)).Mul(exp)
	out := target.Add(change.Add(temp).Mul(exp))

	// no overshoot past the original target
	if original.Sub(current).Dot(out.Sub(original)) > 0 {
		out = original
		*velocity = out.Sub(original).Mul(1 / dt)
	}
	return out
}
