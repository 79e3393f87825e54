package system

import (
	"github.com/milk9111/fpscontroller/common"
	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
)

// CameraSystem eases the top-down camera toward its target on the XZ plane.
type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World, dt float64) {
	if !cs.camEntity.Valid() || !ecs.IsAlive(w, cs.camEntity) {
		e, _, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = e
		cs.targetEntity = 0
	}
	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}

	if !cs.targetEntity.Valid() || !ecs.IsAlive(w, cs.targetEntity) {
		cs.targetEntity = FindEntityByName(w, cam.TargetName)
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	t := 1.0
	if cam.Smoothness > 0 {
		t = common.Clamp(dt/cam.Smoothness, 0, 1)
	}
	cam.X = common.Lerp(cam.X, target.Position.X(), t)
	cam.Z = common.Lerp(cam.Z, target.Position.Z(), t)
}

// FindEntityByName returns the live entity whose Name matches, falling back
// to the player tag for "player".
func FindEntityByName(w *ecs.World, name string) ecs.Entity {
	if name == "" {
		return 0
	}
	var found ecs.Entity
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if !found.Valid() && n.Value == name {
			found = e
		}
	})
	if found.Valid() {
		return found
	}
	if name == "player" {
		if e, _, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
