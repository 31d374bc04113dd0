package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/ecs"
)

const dt = 1.0 / 60

func newSlab(t *testing.T, w *World, scene *ecs.World, center mgl64.Vec3, parent ecs.Entity) ecs.Entity {
	t.Helper()
	e := scene.Spawn(center, parent)
	if err := w.AddBody(e, BodyDesc{Kind: Kinematic, Shape: NewCuboid(20, 0.1, 40)}); err != nil {
		t.Fatalf("add slab: %v", err)
	}
	return e
}

func TestCapsuleSettlesOnSlab(t *testing.T) {
	scene := ecs.NewWorld()
	w := NewWorld(scene, 9.81)
	newSlab(t, w, scene, mgl64.Vec3{0, 0, 0}, ecs.Nil)

	player := scene.Spawn(mgl64.Vec3{0, 3, 0}, ecs.Nil)
	err := w.AddBody(player, BodyDesc{
		Kind:   Dynamic,
		Shape:  Capsule{Radius: 0.5, HalfHeight: 1},
		Mass:   76,
		Locked: AxisZ,
	})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}

	for range 300 {
		w.Step(dt)
	}
	pos := w.Position(player)
	if math.Abs(pos.Y()-1.55) > 1e-6 {
		t.Fatalf("resting height = %v, want 1.55", pos.Y())
	}
	if v := w.Velocity(player); math.Abs(v.Y()) > 1e-9 {
		t.Fatalf("resting velocity = %v, want zero", v)
	}
}

func TestLockedAxisIgnoresForces(t *testing.T) {
	scene := ecs.NewWorld()
	w := NewWorld(scene, 0)
	e := scene.Spawn(mgl64.Vec3{}, ecs.Nil)
	if err := w.AddBody(e, BodyDesc{Kind: Dynamic, Shape: Sphere{Radius: 1}, Mass: 2, Locked: AxisZ}); err != nil {
		t.Fatal(err)
	}
	w.ApplyForce(e, mgl64.Vec3{4, 0, 100})
	w.ApplyImpulse(e, mgl64.Vec3{0, 0, 50})
	w.Step(1)

	v := w.Velocity(e)
	if v.Z() != 0 || w.Position(e).Z() != 0 {
		t.Fatalf("locked axis moved: v=%v pos=%v", v, w.Position(e))
	}
	if v.X() != 2 {
		t.Fatalf("vx = %v, want 2", v.X())
	}

	// Forces do not carry over to the next step.
	w.Step(1)
	if got := w.Velocity(e).X(); got != 2 {
		t.Fatalf("vx after second step = %v, want 2", got)
	}
}

func TestSphereCast(t *testing.T) {
	scene := ecs.NewWorld()
	w := NewWorld(scene, 9.81)
	ground := newSlab(t, w, scene, mgl64.Vec3{}, ecs.Nil)

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		max      float64
		exclude  []ecs.Entity
		wantHit  bool
		wantDist float64
	}{
		{"reaches", mgl64.Vec3{0, 1, 0}, 1, nil, true, 0.5},
		{"too short", mgl64.Vec3{0, 1, 0}, 0.4, nil, false, 0},
		{"excluded", mgl64.Vec3{0, 1, 0}, 1, []ecs.Entity{ground}, false, 0},
		{"starts in contact", mgl64.Vec3{0, 0.3, 0}, 0.02, nil, true, 0},
		{"beside the slab", mgl64.Vec3{15, 1, 0}, 5, nil, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := w.CastShape(CastQuery{
				Shape:       Sphere{Radius: 0.45},
				Origin:      tt.origin,
				Direction:   Down,
				MaxDistance: tt.max,
				Exclude:     tt.exclude,
			})
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if h.Entity != ground {
				t.Fatalf("hit entity %v, want %v", h.Entity, ground)
			}
			if math.Abs(h.Distance-tt.wantDist) > 1e-9 {
				t.Fatalf("distance = %v, want %v", h.Distance, tt.wantDist)
			}
			if h.Normal.Dot(Up) < 0.999 {
				t.Fatalf("normal = %v, want up", h.Normal)
			}
		})
	}
}

func TestCastAcrossSeamPrefersFloor(t *testing.T) {
	scene := ecs.NewWorld()
	w := NewWorld(scene, 9.81)
	newSlab(t, w, scene, mgl64.Vec3{0, 0, 20}, ecs.Nil)
	second := newSlab(t, w, scene, mgl64.Vec3{0, 0, 60}, ecs.Nil)

	h, ok := w.CastShape(CastQuery{
		Shape:       Sphere{Radius: 0.45},
		Origin:      mgl64.Vec3{0, 0.07, 40.2},
		Direction:   Down,
		MaxDistance: 0.02,
	})
	if !ok {
		t.Fatal("expected a hit")
	}
	if h.Entity != second || h.Normal.Dot(Up) < 0.999 {
		t.Fatalf("hit %v normal %v, want floor of %v", h.Entity, h.Normal, second)
	}
}

func TestKinematicBodiesFollowParent(t *testing.T) {
	scene := ecs.NewWorld()
	w := NewWorld(scene, 9.81)
	root := scene.Spawn(mgl64.Vec3{}, ecs.Nil)
	slab := newSlab(t, w, scene, mgl64.Vec3{0, 0, 20}, root)

	q := CastQuery{Shape: Sphere{Radius: 0.45}, Origin: mgl64.Vec3{0, 1, 10}, Direction: Down, MaxDistance: 1}
	if _, ok := w.CastShape(q); !ok {
		t.Fatal("expected hit before scrolling")
	}
	scene.SetLocal(root, mgl64.Vec3{0, 0, -100})
	if h, ok := w.CastShape(q); ok {
		t.Fatalf("slab still hit at %v after scrolling", h)
	}
	if got := w.Position(slab).Z(); got != -80 {
		t.Fatalf("slab z = %v, want -80", got)
	}
}

func TestAddBodyErrors(t *testing.T) {
	scene := ecs.NewWorld()
	w := NewWorld(scene, 9.81)
	e := scene.Spawn(mgl64.Vec3{}, ecs.Nil)

	if err := w.AddBody(e, BodyDesc{Kind: Dynamic, Shape: Sphere{Radius: 1}}); !errors.Is(err, ErrInvalidMass) {
		t.Fatalf("zero mass: got %v", err)
	}
	if err := w.AddBody(e, BodyDesc{Kind: Static}); !errors.Is(err, ErrNoShape) {
		t.Fatalf("no shape: got %v", err)
	}
	if err := w.AddBody(e, BodyDesc{Kind: Static, Shape: Sphere{Radius: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := w.AddBody(e, BodyDesc{Kind: Static, Shape: Sphere{Radius: 1}}); !errors.Is(err, ErrBodyExists) {
		t.Fatalf("duplicate: got %v", err)
	}

	scene.DestroyRecursive(e)
	if w.Bodies() != 0 {
		t.Fatalf("bodies after destroy = %d, want 0", w.Bodies())
	}
	if err := w.AddBody(e, BodyDesc{Kind: Static, Shape: Sphere{Radius: 1}}); !errors.Is(err, ErrUnknownActor) {
		t.Fatalf("dead entity: got %v", err)
	}
}
