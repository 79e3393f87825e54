package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/fpscontroller/locomotion"
)

const (
	stickDeadzone = 0.2
	// stickLookScale maps full right-stick deflection onto mouse-like deltas.
	stickLookScale = 8.0
)

// DeviceSource samples keyboard, mouse and the first gamepad. Mouse look is
// only read while the cursor is captured.
type DeviceSource struct {
	MouseScale float64

	lastX, lastY int
	tracking     bool
}

func NewDeviceSource() *DeviceSource {
	return &DeviceSource{MouseScale: 1}
}

func (d *DeviceSource) Sample(InputTick) (locomotion.Input, error) {
	var in locomotion.Input

	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move[1]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move[1]--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move[0]++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move[0]--
	}
	if l := in.Move.Len(); l > 1 {
		in.Move = in.Move.Mul(1 / l)
	}

	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Crouch = ebiten.IsKeyPressed(ebiten.KeyC) || ebiten.IsKeyPressed(ebiten.KeyControl)
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)

	if ebiten.CursorMode() == ebiten.CursorModeCaptured {
		x, y := ebiten.CursorPosition()
		if d.tracking {
			// screen y grows downward; look up is positive
			in.Look[0] = float64(x-d.lastX) * d.MouseScale
			in.Look[1] = -float64(y-d.lastY) * d.MouseScale
		}
		d.lastX, d.lastY = x, y
		d.tracking = true
	} else {
		d.tracking = false
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			in.Move[0] = lx
			in.Move[1] = -ly
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			in.Look[0] = rx * stickLookScale
			in.Look[1] = -ry * stickLookScale
		}

		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Sprint = in.Sprint || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftStick)
		in.Crouch = in.Crouch || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight)
	}

	return in, nil
}
