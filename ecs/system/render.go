package system

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/locomotion"
	"github.com/milk9111/fpscontroller/physics"
)

const (
	defaultZoom   = 16.0
	facingLength  = 1.5
	hudLineHeight = 14
	hudMargin     = 10
)

// RenderSystem draws a top-down view of the level and the player plus a
// HUD of the controller state. It does nothing on Update.
type RenderSystem struct {
	Physics *physics.CollisionWorld
	HUD     bool

	face      text.Face
	camEntity ecs.Entity
}

func NewRenderSystem(cw *physics.CollisionWorld) *RenderSystem {
	return &RenderSystem{
		Physics: cw,
		HUD:     true,
		face:    text.NewGoXFace(basicfont.Face7x13),
	}
}

func (r *RenderSystem) Update(w *ecs.World, dt float64) {}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(color.RGBA{R: 0x18, G: 0x1a, B: 0x20, A: 0xff})

	view := r.view(w, screen)
	if r.Physics != nil {
		for _, b := range r.Physics.Boxes() {
			x0, y0 := view.toScreen(b.Min.X(), b.Max.Z())
			x1, y1 := view.toScreen(b.Max.X(), b.Min.Z())
			fill := heightColor(b.Max.Y())
			vector.FillRect(screen, x0, y0, x1-x0, y1-y0, fill, false)
			vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, colornames.Dimgray, false)
		}
	}

	ecs.ForEach2(w, component.PlayerControllerComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, pc *component.PlayerController, t *component.Transform) {
			r.drawPlayer(w, screen, view, e, pc, t)
		})

	if r.HUD {
		r.drawHUD(w, screen)
	}
}

type topDownView struct {
	camX, camZ float64
	zoom       float64
	halfW      float64
	halfH      float64
}

func (v topDownView) toScreen(x, z float64) (float32, float32) {
	// +Z is up on screen
	return float32(v.halfW + (x-v.camX)*v.zoom), float32(v.halfH - (z-v.camZ)*v.zoom)
}

func (r *RenderSystem) view(w *ecs.World, screen *ebiten.Image) topDownView {
	b := screen.Bounds()
	v := topDownView{zoom: defaultZoom, halfW: float64(b.Dx()) / 2, halfH: float64(b.Dy()) / 2}
	if !r.camEntity.Valid() || !ecs.IsAlive(w, r.camEntity) {
		if e, _, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
			r.camEntity = e
		}
	}
	if cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind()); ok {
		v.camX, v.camZ = cam.X, cam.Z
		if cam.Zoom > 0 {
			v.zoom = cam.Zoom
		}
	}
	return v
}

func (r *RenderSystem) drawPlayer(w *ecs.World, screen *ebiten.Image, v topDownView, e ecs.Entity, pc *component.PlayerController, t *component.Transform) {
	px, py := v.toScreen(t.Position.X(), t.Position.Z())

	radius := 0.4
	bodyColor := colornames.Crimson
	if cc, ok := ecs.Get(w, e, component.CharacterControllerComponent.Kind()); ok {
		radius = cc.Radius
		if cc.Grounded {
			bodyColor = colornames.Limegreen
		}
	}
	vector.StrokeCircle(screen, px, py, float32(radius*v.zoom), 2, bodyColor, true)

	forward, _, _ := locomotion.Basis(t.Rotation)
	fx, fy := v.toScreen(t.Position.X()+forward.X()*facingLength, t.Position.Z()+forward.Z()*facingLength)
	vector.StrokeLine(screen, px, py, fx, fy, 2, colornames.White, true)

	// pivot forward shortens as the view pitches away from the horizon
	if pivot, ok := ecs.Get(w, ecs.Entity(pc.Pivot), component.TransformComponent.Kind()); ok {
		look, _, _ := locomotion.Basis(pivot.Rotation)
		lx, ly := v.toScreen(pivot.Position.X()+look.X()*facingLength*2, pivot.Position.Z()+look.Z()*facingLength*2)
		ox, oy := v.toScreen(pivot.Position.X(), pivot.Position.Z())
		vector.StrokeLine(screen, ox, oy, lx, ly, 1, colornames.Gold, true)
	}
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	e, pc, ok := ecs.First(w, component.PlayerControllerComponent.Kind())
	if !ok || pc.Controller == nil {
		return
	}

	lines := HUDLines(w, e, pc)
	op := &text.DrawOptions{}
	op.GeoM.Translate(hudMargin, hudMargin)
	op.LineSpacing = hudLineHeight
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, strings.Join(lines, "\n"), r.face, op)
}

// HUDLines formats the controller state and animation parameters of a
// player entity, one entry per line.
func HUDLines(w *ecs.World, e ecs.Entity, pc *component.PlayerController) []string {
	s := pc.Controller.State
	lines := []string{
		fmt.Sprintf("mode: %s  speed: %.2f", s.Mode, s.CurrentSpeed),
		fmt.Sprintf("yaw: %.1f  pitch: %.1f", s.Yaw, s.Pitch),
		fmt.Sprintf("velocity y: %.2f  grounded: %v", s.VelocityY, s.Grounded),
		fmt.Sprintf("enabled: %v", s.Enabled),
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("pos: %.2f %.2f %.2f", t.Position.X(), t.Position.Y(), t.Position.Z()))
	}
	if state, ok := ecs.Get(w, e, component.AnimationStateComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("clip: %s (%.1fs)", state.Clip, state.Time))
	}
	if anim, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok && anim.Params != nil {
		for el := anim.Params.Front(); el != nil; el = el.Next() {
			lines = append(lines, fmt.Sprintf("  %s = %s", el.Key, el.Value))
		}
	}
	return lines
}

func heightColor(top float64) color.Color {
	shade := uint8(0x40 + math.Min(0xa0, math.Max(0, top)*0x30))
	return color.RGBA{R: shade / 2, G: shade / 2, B: shade, A: 0xff}
}
