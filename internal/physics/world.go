package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/ecs"
)

const solverIterations = 4

type body struct {
	desc     BodyDesc
	velocity mgl64.Vec3
	force    mgl64.Vec3
	impulse  mgl64.Vec3
}

// World is the in-repo Engine. Body positions live in the ECS transform
// table, so kinematic bodies parented to a moving root move with it.
type World struct {
	Gravity mgl64.Vec3

	scene  *ecs.World
	bodies *ecs.Store[body]
}

var _ Engine = (*World)(nil)

// NewWorld creates an engine over scene with gravity magnitude g pointing down.
func NewWorld(scene *ecs.World, g float64) *World {
	return &World{
		Gravity: Down.Mul(g),
		scene:   scene,
		bodies:  ecs.NewStore[body](scene.Registry),
	}
}

// AddBody attaches a body to a live entity that already has a transform.
func (w *World) AddBody(e ecs.Entity, desc BodyDesc) error {
	if !w.scene.Alive(e) {
		return fmt.Errorf("physics: add %v: %w", e, ErrUnknownActor)
	}
	if w.bodies.Has(e) {
		return fmt.Errorf("physics: add %v: %w", e, ErrBodyExists)
	}
	if desc.Shape == nil {
		return fmt.Errorf("physics: add %v: %w", e, ErrNoShape)
	}
	if desc.Kind == Dynamic && desc.Mass <= 0 {
		return fmt.Errorf("physics: add %v: %w", e, ErrInvalidMass)
	}
	w.bodies.Set(e, body{desc: desc})
	return nil
}

// RemoveBody detaches the body. Destroying the entity does the same.
func (w *World) RemoveBody(e ecs.Entity) {
	w.bodies.Remove(e)
}

// Bodies returns the number of attached bodies.
func (w *World) Bodies() int {
	return w.bodies.Len()
}

func (w *World) Shape(e ecs.Entity) (Shape, bool) {
	b, ok := w.bodies.Get(e)
	if !ok {
		return nil, false
	}
	return b.desc.Shape, true
}

// Mass returns zero for non-dynamic or unknown bodies.
func (w *World) Mass(e ecs.Entity) float64 {
	b, ok := w.bodies.Get(e)
	if !ok || b.desc.Kind != Dynamic {
		return 0
	}
	return b.desc.Mass
}

// Position is the world-space entity origin.
func (w *World) Position(e ecs.Entity) mgl64.Vec3 {
	return w.scene.GlobalPosition(e)
}

func (w *World) Velocity(e ecs.Entity) mgl64.Vec3 {
	b, ok := w.bodies.Get(e)
	if !ok {
		return mgl64.Vec3{}
	}
	return b.velocity
}

// ApplyForce accumulates a force for the next Step.
func (w *World) ApplyForce(e ecs.Entity, force mgl64.Vec3) {
	if b := w.bodies.Ptr(e); b != nil && b.desc.Kind == Dynamic {
		b.force = b.force.Add(force)
	}
}

// ApplyImpulse accumulates an impulse applied at the start of the next Step.
func (w *World) ApplyImpulse(e ecs.Entity, impulse mgl64.Vec3) {
	if b := w.bodies.Ptr(e); b != nil && b.desc.Kind == Dynamic {
		b.impulse = b.impulse.Add(impulse)
	}
}

// Step integrates every dynamic body by dt with semi-implicit Euler and
// resolves its contacts against kinematic and static cuboids. Accumulated
// forces and impulses are cleared.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	solids := w.solids()
	for _, e := range w.bodies.Entities() {
		b := w.bodies.Ptr(e)
		if b.desc.Kind != Dynamic {
			continue
		}
		inv := 1 / b.desc.Mass
		v := b.velocity.Add(b.impulse.Mul(inv))
		v = v.Add(w.Gravity.Add(b.force.Mul(inv)).Mul(dt))
		v = lock(v, b.desc.Locked)

		pos := w.scene.GlobalPosition(e).Add(v.Mul(dt))
		pos, v = w.resolve(e, b.desc, pos, v, solids)

		b.velocity = v
		b.force = mgl64.Vec3{}
		b.impulse = mgl64.Vec3{}
		w.setGlobal(e, pos)
	}
}

type solid struct {
	entity ecs.Entity
	min    mgl64.Vec3
	max    mgl64.Vec3
}

// solids snapshots world-space boxes of all non-dynamic cuboids.
func (w *World) solids() []solid {
	var out []solid
	w.bodies.Each(func(e ecs.Entity, b *body) {
		box, ok := b.desc.Shape.(Cuboid)
		if !ok || b.desc.Kind == Dynamic {
			return
		}
		c := w.scene.GlobalPosition(e).Add(b.desc.Offset)
		out = append(out, solid{entity: e, min: c.Sub(box.HalfExtents), max: c.Add(box.HalfExtents)})
	})
	return out
}

func (w *World) resolve(e ecs.Entity, desc BodyDesc, pos, v mgl64.Vec3, solids []solid) (mgl64.Vec3, mgl64.Vec3) {
	var capsule Capsule
	switch s := desc.Shape.(type) {
	case Capsule:
		capsule = s
	case Sphere:
		capsule = Capsule{Radius: s.Radius}
	default:
		return pos, v
	}
	for range solverIterations {
		moved := false
		for _, s := range solids {
			n, depth, ok := capsuleBoxContact(pos.Add(desc.Offset), capsule, s.min, s.max)
			if !ok {
				continue
			}
			pos = pos.Add(lock(n.Mul(depth), desc.Locked))
			if vn := v.Dot(n); vn < 0 {
				v = lock(v.Sub(n.Mul(vn)), desc.Locked)
			}
			moved = true
		}
		if !moved {
			break
		}
	}
	return pos, v
}

func (w *World) setGlobal(e ecs.Entity, global mgl64.Vec3) {
	local := global
	if t, ok := w.scene.Transforms.Get(e); ok && !t.Parent.IsNil() {
		local = global.Sub(w.scene.GlobalPosition(t.Parent))
	}
	w.scene.SetLocal(e, local)
}

func lock(v mgl64.Vec3, axes Axes) mgl64.Vec3 {
	for i := range 3 {
		if axes.Has(i) {
			v[i] = 0
		}
	}
	return v
}
