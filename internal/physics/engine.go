package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/ecs"
)

// Errors returned by AddBody.
var (
	ErrBodyExists   = errors.New("physics: entity already has a body")
	ErrNoShape      = errors.New("physics: body has no shape")
	ErrInvalidMass  = errors.New("physics: dynamic body needs a positive mass")
	ErrUnknownActor = errors.New("physics: entity is not alive")
)

// BodyKind selects how a body participates in the simulation.
type BodyKind int

const (
	// Dynamic bodies are integrated and pushed out of contacts.
	Dynamic BodyKind = iota
	// Kinematic bodies follow their transform and push dynamic bodies.
	Kinematic
	// Static bodies never move.
	Static
)

// Axes is a bit set of translation axes.
type Axes uint8

const (
	AxisX Axes = 1 << iota
	AxisY
	AxisZ
)

// Has reports whether axis i (0=X, 1=Y, 2=Z) is set.
func (a Axes) Has(i int) bool {
	return a&(1<<i) != 0
}

// BodyDesc describes a rigid body attached to an entity.
type BodyDesc struct {
	Kind   BodyKind
	Shape  Shape
	Mass   float64    // Ignored for non-dynamic bodies
	Offset mgl64.Vec3 // Collider center relative to the entity origin
	Locked Axes       // Translation axes the body cannot move along
}

// CastQuery is a shape cast: Shape swept from Origin along Direction for at
// most MaxDistance, ignoring the Exclude entities.
type CastQuery struct {
	Shape       Shape
	Origin      mgl64.Vec3
	Direction   mgl64.Vec3
	MaxDistance float64
	Exclude     []ecs.Entity
}

// Hit is the first contact found by a cast.
type Hit struct {
	Entity   ecs.Entity
	Distance float64    // Travel before contact, 0 when the cast starts in contact
	Point    mgl64.Vec3 // Contact point on the hit surface
	Normal   mgl64.Vec3 // Surface normal of the hit body at Point
}

// Engine is the rigid-body service consumed by the runner core.
// It is the only writer of body positions and velocities.
type Engine interface {
	AddBody(e ecs.Entity, desc BodyDesc) error
	RemoveBody(e ecs.Entity)
	Shape(e ecs.Entity) (Shape, bool)
	Mass(e ecs.Entity) float64
	Position(e ecs.Entity) mgl64.Vec3
	Velocity(e ecs.Entity) mgl64.Vec3
	ApplyForce(e ecs.Entity, force mgl64.Vec3)
	ApplyImpulse(e ecs.Entity, impulse mgl64.Vec3)
	CastShape(q CastQuery) (Hit, bool)
	Step(dt float64)
}
