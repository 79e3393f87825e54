package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/locomotion"
	"github.com/milk9111/fpscontroller/physics"
)

const testDT = 0.02

type fixedSource struct {
	in    locomotion.Input
	ticks []InputTick
}

func (f *fixedSource) Sample(tick InputTick) (locomotion.Input, error) {
	f.ticks = append(f.ticks, tick)
	return f.in, nil
}

func flatWorld() *physics.CollisionWorld {
	return physics.NewCollisionWorld([]physics.Box{{
		Min:   mgl64.Vec3{-50, -1, -50},
		Max:   mgl64.Vec3{50, 0, 50},
		Layer: 1 << 1,
	}})
}

// spawnPlayer builds a player, its pivot and a camera rig that follows the
// pivot, wired the way scene prefabs are.
func spawnPlayer(t *testing.T, w *ecs.World, cfg locomotion.Config) (player, pivot, rig ecs.Entity) {
	t.Helper()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	pivot = ecs.CreateEntity(w)
	must(ecs.Add(w, pivot, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{})))
	must(ecs.Add(w, pivot, component.LookPivotTagComponent.Kind(), &component.LookPivotTag{}))

	player = ecs.CreateEntity(w)
	must(ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	must(ecs.Add(w, player, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{0, 0.5, 0})))
	must(ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}))
	must(ecs.Add(w, player, component.InputBindingComponent.Kind(), &component.InputBinding{Enabled: true}))
	must(ecs.Add(w, player, component.CharacterControllerComponent.Kind(), &component.CharacterController{Radius: 0.4, Height: 1.8, StepOffset: 0.3}))
	must(ecs.Add(w, player, component.AnimatorComponent.Kind(), component.NewAnimator()))
	must(ecs.Add(w, player, component.AnimationStateComponent.Kind(), &component.AnimationState{}))
	must(ecs.Add(w, player, component.PlayerControllerComponent.Kind(), &component.PlayerController{
		Controller:  locomotion.New(cfg),
		Pivot:       uint64(pivot),
		PivotOffset: mgl64.Vec3{0, 1.6, 0},
	}))

	rig = ecs.CreateEntity(w)
	must(ecs.Add(w, rig, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{})))
	must(ecs.Add(w, rig, component.FollowPositionComponent.Kind(), &component.FollowPosition{Target: uint64(pivot)}))
	must(ecs.Add(w, rig, component.FollowRotationComponent.Kind(), &component.FollowRotation{Target: uint64(pivot)}))
	return player, pivot, rig
}

func testConfig() locomotion.Config {
	return locomotion.NewConfig(
		locomotion.WithSpeeds(locomotion.SpeedTable{Walk: 2, WalkBack: 1, Run: 5, RunBack: 3, Crouch: 1, CrouchBack: 0.5}),
		locomotion.WithJumpForce(5),
		locomotion.WithLookSensitivity(10),
		locomotion.WithAnimation(),
	)
}

func newTestWorld(src InputSource) *ecs.World {
	w := ecs.NewWorld()
	w.AddSystem(NewInputSystem(src))
	w.AddSystem(NewPlayerControllerSystem(flatWorld()))
	w.AddSystem(NewFollowSystem())
	w.AddSystem(NewAnimationSystem())
	return w
}

func TestPlayerFallsLandsAndWalks(t *testing.T) {
	src := &fixedSource{}
	w := newTestWorld(src)
	player, pivot, rig := spawnPlayer(t, w, testConfig())

	landed := false
	for i := 0; i < 100; i++ {
		w.Update(testDT)
		for _, ev := range w.Events().Peek() {
			if ev.Type == ecs.EventLanded {
				landed = true
			}
		}
	}
	if !landed {
		t.Fatalf("expected a landed event")
	}

	pt, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	cc, _ := ecs.Get(w, player, component.CharacterControllerComponent.Kind())
	if pt.Position.Y() != 0 || !cc.Grounded {
		t.Fatalf("expected player resting on the floor, got y=%v grounded=%v", pt.Position.Y(), cc.Grounded)
	}
	pc, _ := ecs.Get(w, player, component.PlayerControllerComponent.Kind())
	if pc.Controller.State.VelocityY != locomotion.GroundedVelocity {
		t.Fatalf("expected grounded velocity pinned, got %v", pc.Controller.State.VelocityY)
	}

	// first forward frame moves with the previous (zero) speed
	src.in = locomotion.Input{Move: mgl64.Vec2{0, 1}}
	w.Update(testDT)
	if pt.Position.Z() != 0 {
		t.Fatalf("expected no move on the first forward frame, got z=%v", pt.Position.Z())
	}
	for i := 0; i < 50; i++ {
		w.Update(testDT)
	}
	if want := 2 * testDT * 50; math.Abs(pt.Position.Z()-want) > 1e-6 {
		t.Fatalf("expected z=%v after walking, got %v", want, pt.Position.Z())
	}

	pivotT, _ := ecs.Get(w, pivot, component.TransformComponent.Kind())
	if !pivotT.Position.ApproxEqual(pt.Position.Add(mgl64.Vec3{0, 1.6, 0})) {
		t.Fatalf("expected pivot above the feet, got %v", pivotT.Position)
	}
	rigT, _ := ecs.Get(w, rig, component.TransformComponent.Kind())
	if rigT.Position != pivotT.Position || rigT.Rotation != pivotT.Rotation {
		t.Fatalf("expected rig to copy the pivot transform")
	}

	state, _ := ecs.Get(w, player, component.AnimationStateComponent.Kind())
	if state.Clip != ClipWalk {
		t.Fatalf("expected walk clip, got %q", state.Clip)
	}
}

func TestPlayerLookWritesBodyAndPivot(t *testing.T) {
	src := &fixedSource{in: locomotion.Input{Look: mgl64.Vec2{450, -100}}}
	w := newTestWorld(src)
	player, pivot, _ := spawnPlayer(t, w, testConfig())

	w.Update(testDT) // yaw += 450*10*0.02 = 90, pitch += 20

	body, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	forward, _, _ := locomotion.Basis(body.Rotation)
	if !forward.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Fatalf("expected body facing +X, got %v", forward)
	}
	pivotT, _ := ecs.Get(w, pivot, component.TransformComponent.Kind())
	look := locomotion.LookFromRotation(pivotT.Rotation)
	if math.Abs(look.Yaw-90) > 1e-6 || math.Abs(look.Pitch-20) > 1e-6 {
		t.Fatalf("expected pivot yaw 90 pitch 20, got %+v", look)
	}
}

func TestJumpEventsAndDisable(t *testing.T) {
	src := &fixedSource{}
	w := newTestWorld(src)
	player, _, _ := spawnPlayer(t, w, testConfig())
	for i := 0; i < 60; i++ {
		w.Update(testDT)
	}

	src.in = locomotion.Input{Jump: true}
	w.Update(testDT)
	jumped := false
	for _, ev := range w.Events().Peek() {
		if ev.Type == ecs.EventJumped && ev.Data == player {
			jumped = true
		}
	}
	if !jumped {
		t.Fatalf("expected jumped event")
	}
	anim, _ := ecs.Get(w, player, component.AnimatorComponent.Kind())
	if !anim.Bool(locomotion.ParamIsJumping) {
		t.Fatalf("expected isJumping pulse")
	}

	ecs.Disable(w)
	if anim.Bool(locomotion.ParamIsJumping) {
		t.Fatalf("expected disable to cancel the jump pulse")
	}
	binding, _ := ecs.Get(w, player, component.InputBindingComponent.Kind())
	if binding.Enabled {
		t.Fatalf("expected input unbound")
	}

	body, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	before := body.Position
	w.Update(testDT)
	if body.Position != before {
		t.Fatalf("expected disabled controller to stay put")
	}
	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	if in.Jump {
		t.Fatalf("expected zero sample while unbound")
	}

	ecs.Enable(w)
	pc, _ := ecs.Get(w, player, component.PlayerControllerComponent.Kind())
	if !pc.Controller.State.Enabled || !binding.Enabled {
		t.Fatalf("expected enable to rebind")
	}
}

func TestInputSystemTicks(t *testing.T) {
	src := &fixedSource{in: locomotion.Input{Sprint: true}}
	w := ecs.NewWorld()
	w.AddSystem(NewInputSystem(src))

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		t.Fatalf("add input: %v", err)
	}

	w.Update(0.5)
	w.Update(0.5)
	w.Update(0.5)

	if len(src.ticks) != 3 || src.ticks[2].Frame != 2 || src.ticks[2].Time != 1 || src.ticks[2].DT != 0.5 {
		t.Fatalf("unexpected ticks %+v", src.ticks)
	}
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if !in.Sprint {
		t.Fatalf("expected entity without binding to receive input")
	}
}

func TestFollowSystemSkipsUnsetTarget(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewFollowSystem())

	target := ecs.CreateEntity(w)
	_ = ecs.Add(w, target, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{1, 2, 3}))

	unset := ecs.CreateEntity(w)
	_ = ecs.Add(w, unset, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{9, 9, 9}))
	_ = ecs.Add(w, unset, component.FollowPositionComponent.Kind(), &component.FollowPosition{TargetName: "missing"})

	follower := ecs.CreateEntity(w)
	_ = ecs.Add(w, follower, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{}))
	_ = ecs.Add(w, follower, component.FollowPositionComponent.Kind(), &component.FollowPosition{Target: uint64(target)})

	w.Update(testDT)
	w.Update(testDT)

	ft, _ := ecs.Get(w, follower, component.TransformComponent.Kind())
	if ft.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("expected follower at target, got %v", ft.Position)
	}
	ut, _ := ecs.Get(w, unset, component.TransformComponent.Kind())
	if ut.Position != (mgl64.Vec3{9, 9, 9}) {
		t.Fatalf("expected unset follower untouched, got %v", ut.Position)
	}

	ecs.DestroyEntity(w, target)
	w.Update(testDT)
	if ft.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("expected follower to hold position after target is gone")
	}
}

func TestSelectClip(t *testing.T) {
	tests := []struct {
		name  string
		bools map[string]bool
		blend [2]float64
		want  string
	}{
		{"jump wins", map[string]bool{locomotion.ParamIsJumping: true, locomotion.ParamIsGrounded: true}, [2]float64{0, 1}, ClipJump},
		{"airborne", map[string]bool{}, [2]float64{0, 1}, ClipFall},
		{"idle", map[string]bool{locomotion.ParamIsGrounded: true, locomotion.ParamIsWalking: true}, [2]float64{}, ClipIdle},
		{"walk", map[string]bool{locomotion.ParamIsGrounded: true, locomotion.ParamIsWalking: true}, [2]float64{0, 1}, ClipWalk},
		{"run", map[string]bool{locomotion.ParamIsGrounded: true, locomotion.ParamIsSprinting: true}, [2]float64{0.5, 0.5}, ClipRun},
		{"crouch idle", map[string]bool{locomotion.ParamIsGrounded: true, locomotion.ParamIsCrouching: true}, [2]float64{0.05, 0}, ClipCrouchIdle},
		{"crouch walk", map[string]bool{locomotion.ParamIsGrounded: true, locomotion.ParamIsCrouching: true}, [2]float64{0, -1}, ClipCrouchWalk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim := component.NewAnimator()
			for k, v := range tt.bools {
				anim.SetBool(k, v)
			}
			if got := SelectClip(anim, tt.blend); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHUDLinesListParameters(t *testing.T) {
	w := newTestWorld(&fixedSource{})
	player, _, _ := spawnPlayer(t, w, testConfig())
	w.Update(testDT)

	pc, _ := ecs.Get(w, player, component.PlayerControllerComponent.Kind())
	lines := HUDLines(w, player, pc)
	want := "  " + locomotion.ParamIsSprinting + " = false"
	found := false
	for _, l := range lines {
		if l == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in HUD, got %v", want, lines)
	}
}
