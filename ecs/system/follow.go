package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
)

// FollowSystem copies target positions and rotations onto followers. A
// follower whose target is unset or gone is skipped and reported once.
type FollowSystem struct {
	warned map[followKey]bool
}

type followKey struct {
	e        ecs.Entity
	rotation bool
}

func NewFollowSystem() *FollowSystem {
	return &FollowSystem{}
}

func (f *FollowSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.FollowPositionComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, follow *component.FollowPosition, t *component.Transform) {
			target, ok := f.target(w, e, follow.Target, follow.TargetName, false)
			if !ok {
				return
			}
			t.Position = target.Position
		})

	ecs.ForEach2(w, component.FollowRotationComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, follow *component.FollowRotation, t *component.Transform) {
			target, ok := f.target(w, e, follow.Target, follow.TargetName, true)
			if !ok {
				return
			}
			t.Rotation = target.Rotation
		})
}

func (f *FollowSystem) target(w *ecs.World, e ecs.Entity, target uint64, name string, rotation bool) (*component.Transform, bool) {
	te := ecs.Entity(target)
	if te.Valid() && te != e {
		if t, ok := ecs.Get(w, te, component.TransformComponent.Kind()); ok {
			return t, true
		}
	}

	key := followKey{e: e, rotation: rotation}
	if f.warned == nil {
		f.warned = map[followKey]bool{}
	}
	if !f.warned[key] {
		f.warned[key] = true
		logrus.WithFields(logrus.Fields{
			"entity":   e.String(),
			"target":   name,
			"rotation": rotation,
		}).Warn("follow: target not set")
	}
	return nil, false
}
