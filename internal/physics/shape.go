// Package physics defines the rigid-body engine interface the runner core
// consumes, and World, a compact implementation of it: semi-implicit Euler
// integration, capsule and sphere bodies resting on cuboid slabs, and
// sphere casts against cuboids.
package physics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Shape is a collider shape. Capsules and spheres are Y-aligned.
type Shape interface {
	fmt.Stringer
	shape()
}

// Capsule is a Y-aligned capsule: a segment of length 2*HalfHeight swept by Radius.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

// Cuboid is an axis-aligned box.
type Cuboid struct {
	HalfExtents mgl64.Vec3
}

// Sphere is a ball.
type Sphere struct {
	Radius float64
}

func (Capsule) shape() {}
func (Cuboid) shape()  {}
func (Sphere) shape()  {}

func (c Capsule) String() string {
	return fmt.Sprintf("capsule(r=%g, hh=%g)", c.Radius, c.HalfHeight)
}

func (c Cuboid) String() string {
	return fmt.Sprintf("cuboid(%g×%g×%g)", 2*c.HalfExtents.X(), 2*c.HalfExtents.Y(), 2*c.HalfExtents.Z())
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere(r=%g)", s.Radius)
}

// NewCuboid builds a cuboid from full side lengths.
func NewCuboid(width, height, length float64) Cuboid {
	return Cuboid{HalfExtents: mgl64.Vec3{width / 2, height / 2, length / 2}}
}

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// Down is the world down axis.
var Down = mgl64.Vec3{0, -1, 0}
