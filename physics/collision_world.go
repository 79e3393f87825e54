package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/levels"
)

const (
	skinWidth = 0.01
	maxSlides = 4
	minMove   = 1e-6
)

// Box is a solid axis-aligned block of level geometry.
type Box struct {
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	Layer uint
}

// CollisionWorld keeps the level in a Chipmunk space laid out on the XZ
// plane. Shapes carry the box footprint; vertical extents stay on the Go
// side, keyed by shape.
type CollisionWorld struct {
	space *cp.Space
	boxes []Box
	shape map[*cp.Shape]int
}

func NewCollisionWorld(boxes []Box) *CollisionWorld {
	cw := &CollisionWorld{
		space: cp.NewSpace(),
		shape: make(map[*cp.Shape]int, len(boxes)),
	}
	for _, b := range boxes {
		cw.AddBox(b)
	}
	return cw
}

// NewCollisionWorldFromLevel converts the level boxes and their layer names.
func NewCollisionWorldFromLevel(lvl *levels.Level) *CollisionWorld {
	if lvl == nil {
		return NewCollisionWorld(nil)
	}
	boxes := make([]Box, 0, len(lvl.Boxes))
	for _, b := range lvl.Boxes {
		boxes = append(boxes, Box{
			Min:   mgl64.Vec3{b.Min[0], b.Min[1], b.Min[2]},
			Max:   mgl64.Vec3{b.Max[0], b.Max[1], b.Max[2]},
			Layer: lvl.LayerBit(b.Layer),
		})
	}
	return NewCollisionWorld(boxes)
}

// AddBox inserts a static box.
func (cw *CollisionWorld) AddBox(b Box) {
	if b.Layer == 0 {
		b.Layer = 1
	}
	bb := cp.BB{L: b.Min.X(), B: b.Min.Z(), R: b.Max.X(), T: b.Max.Z()}
	shape := cp.NewBox2(cw.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, b.Layer, cp.ALL_CATEGORIES))
	cw.space.AddShape(shape)
	cw.shape[shape] = len(cw.boxes)
	cw.boxes = append(cw.boxes, b)
}

// Boxes returns the level geometry.
func (cw *CollisionWorld) Boxes() []Box {
	return cw.boxes
}

// CheckSphere reports whether a sphere overlaps any box on a layer in mask.
func (cw *CollisionWorld) CheckSphere(center mgl64.Vec3, radius float64, mask uint) bool {
	hit := false
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, mask)
	bb := cp.BB{L: center.X() - radius, B: center.Z() - radius, R: center.X() + radius, T: center.Z() + radius}
	cw.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		if hit {
			return
		}
		idx, ok := cw.shape[shape]
		if !ok {
			return
		}
		b := cw.boxes[idx]
		closest := mgl64.Vec3{
			clamp(center.X(), b.Min.X(), b.Max.X()),
			clamp(center.Y(), b.Min.Y(), b.Max.Y()),
			clamp(center.Z(), b.Min.Z(), b.Max.Z()),
		}
		if closest.Sub(center).Len() <= radius {
			hit = true
		}
	}, nil)
	return hit
}

// Move sweeps a capsule standing on pos (its feet) by motion: first across
// the XZ plane with sliding and step-up, then along Y.
func (cw *CollisionWorld) Move(pos *mgl64.Vec3, cc *component.CharacterController, motion mgl64.Vec3) component.CollisionFlags {
	var flags component.CollisionFlags
	if pos == nil || cc == nil {
		return flags
	}
	if math.Abs(motion.X()) > minMove || math.Abs(motion.Z()) > minMove {
		flags |= cw.moveHorizontal(pos, cc, cp.Vector{X: motion.X(), Y: motion.Z()})
	}
	if math.Abs(motion.Y()) > 0 {
		flags |= cw.moveVertical(pos, cc, motion.Y())
	}
	return flags
}

func (cw *CollisionWorld) moveHorizontal(pos *mgl64.Vec3, cc *component.CharacterController, delta cp.Vector) component.CollisionFlags {
	var flags component.CollisionFlags
	for i := 0; i < maxSlides && delta.LengthSq() > minMove*minMove; i++ {
		start := cp.Vector{X: pos.X(), Y: pos.Z()}
		end := start.Add(delta)

		alpha, normal, ok := cw.firstBlockingHit(start, end, pos.Y(), cc)
		if !ok {
			pos[0], pos[2] = end.X, end.Y
			break
		}
		flags |= component.CollidedSides

		length := delta.Length()
		travel := math.Max(0, alpha-skinWidth/length)
		moved := delta.Mult(travel)
		pos[0] += moved.X
		pos[2] += moved.Y

		rest := delta.Mult(1 - travel)
		delta = rest.Sub(normal.Mult(rest.Dot(normal)))
	}

	// climb onto anything no taller than the step offset
	if top, ok := cw.floorBelow(*pos, cc.Radius, pos.Y()+cc.StepOffset); ok && top > pos.Y() {
		pos[1] = top
	}
	return flags
}

// firstBlockingHit finds the earliest swept-circle contact with a box whose
// vertical extent blocks the capsule at height y.
func (cw *CollisionWorld) firstBlockingHit(start, end cp.Vector, y float64, cc *component.CharacterController) (float64, cp.Vector, bool) {
	dir := end.Sub(start)
	bottom := y + cc.StepOffset
	top := y + cc.Height
	best := math.Inf(1)
	var normal cp.Vector

	// each candidate is swept on its own so a floor under the path cannot
	// hide a wall
	sweep := cp.NewBBForExtents(start, 0, 0).Expand(end)
	sweep = cp.BB{L: sweep.L - cc.Radius, B: sweep.B - cc.Radius, R: sweep.R + cc.Radius, T: sweep.T + cc.Radius}
	cw.space.BBQuery(sweep, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		idx, ok := cw.shape[shape]
		if !ok {
			return
		}
		b := cw.boxes[idx]
		if b.Max.Y() <= bottom || b.Min.Y() >= top {
			return
		}
		var info cp.SegmentQueryInfo
		if !shape.SegmentQuery(start, end, cc.Radius, &info) {
			return
		}
		if info.Normal.Dot(dir) >= 0 {
			return
		}
		if info.Alpha < best {
			best = info.Alpha
			normal = info.Normal
		}
	}, nil)

	if math.IsInf(best, 1) {
		return 0, cp.Vector{}, false
	}
	return best, normal, true
}

func (cw *CollisionWorld) moveVertical(pos *mgl64.Vec3, cc *component.CharacterController, dy float64) component.CollisionFlags {
	if dy < 0 {
		if top, ok := cw.floorBelow(*pos, cc.Radius, pos.Y()+skinWidth); ok && pos.Y()+dy <= top {
			pos[1] = top
			return component.CollidedBelow
		}
		pos[1] += dy
		return 0
	}

	if ceil, ok := cw.ceilingAbove(*pos, cc.Radius, pos.Y()+cc.Height-skinWidth); ok && pos.Y()+cc.Height+dy >= ceil {
		pos[1] = ceil - cc.Height
		return component.CollidedAbove
	}
	pos[1] += dy
	return 0
}

// floorBelow returns the highest box top under the capsule footprint that is
// not above limit.
func (cw *CollisionWorld) floorBelow(pos mgl64.Vec3, radius, limit float64) (float64, bool) {
	best := math.Inf(-1)
	cw.footprint(pos, radius, func(b Box) {
		if t := b.Max.Y(); t <= limit && t > best {
			best = t
		}
	})
	return best, !math.IsInf(best, -1)
}

// ceilingAbove returns the lowest box bottom over the footprint that is not
// below limit.
func (cw *CollisionWorld) ceilingAbove(pos mgl64.Vec3, radius, limit float64) (float64, bool) {
	best := math.Inf(1)
	cw.footprint(pos, radius, func(b Box) {
		if m := b.Min.Y(); m >= limit && m < best {
			best = m
		}
	})
	return best, !math.IsInf(best, 1)
}

func (cw *CollisionWorld) footprint(pos mgl64.Vec3, radius float64, fn func(Box)) {
	x, z := pos.X(), pos.Z()
	bb := cp.BB{L: x - radius, B: z - radius, R: x + radius, T: z + radius}
	cw.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
		idx, ok := cw.shape[shape]
		if !ok {
			return
		}
		b := cw.boxes[idx]
		dx := x - clamp(x, b.Min.X(), b.Max.X())
		dz := z - clamp(z, b.Min.Z(), b.Max.Z())
		if dx*dx+dz*dz < radius*radius {
			fn(b)
		}
	}, nil)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
