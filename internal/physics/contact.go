package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// capsuleBoxContact returns the push-out normal and depth for a Y-aligned
// capsule centered at c overlapping the box [lo, hi].
func capsuleBoxContact(c mgl64.Vec3, capsule Capsule, lo, hi mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	bottom := c.Y() - capsule.HalfHeight
	top := c.Y() + capsule.HalfHeight

	// Closest pair between the capsule segment and the box.
	var segY, boxY float64
	switch {
	case top < lo.Y():
		segY, boxY = top, lo.Y()
	case bottom > hi.Y():
		segY, boxY = bottom, hi.Y()
	default:
		segY = (math.Max(bottom, lo.Y()) + math.Min(top, hi.Y())) / 2
		boxY = segY
	}
	px := mgl64.Clamp(c.X(), lo.X(), hi.X())
	pz := mgl64.Clamp(c.Z(), lo.Z(), hi.Z())
	d := mgl64.Vec3{c.X() - px, segY - boxY, c.Z() - pz}
	dist := d.Len()
	if dist >= capsule.Radius {
		return mgl64.Vec3{}, 0, false
	}
	if dist > epsilon {
		return d.Mul(1 / dist), capsule.Radius - dist, true
	}

	// Segment inside the box: leave through the cheapest face.
	r := capsule.Radius
	exits := [6]struct {
		n     mgl64.Vec3
		depth float64
	}{
		{mgl64.Vec3{0, 1, 0}, hi.Y() - bottom + r},
		{mgl64.Vec3{0, -1, 0}, top - lo.Y() + r},
		{mgl64.Vec3{1, 0, 0}, hi.X() - c.X() + r},
		{mgl64.Vec3{-1, 0, 0}, c.X() - lo.X() + r},
		{mgl64.Vec3{0, 0, 1}, hi.Z() - c.Z() + r},
		{mgl64.Vec3{0, 0, -1}, c.Z() - lo.Z() + r},
	}
	best := exits[0]
	for _, x := range exits[1:] {
		if x.depth < best.depth {
			best = x
		}
	}
	return best.n, best.depth, true
}

// leastPenetrationNormal picks the face of [lo, hi] nearest to p, which lies inside.
func leastPenetrationNormal(p, lo, hi mgl64.Vec3) mgl64.Vec3 {
	best := math.Inf(1)
	var n mgl64.Vec3
	for i := range 3 {
		if d := hi[i] - p[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = 1
		}
		if d := p[i] - lo[i]; d < best {
			best = d
			n = mgl64.Vec3{}
			n[i] = -1
		}
	}
	return n
}
