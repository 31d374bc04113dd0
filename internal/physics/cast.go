package physics

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// CastShape sweeps a sphere or capsule against every non-dynamic cuboid and
// returns the closest hit. A cast that starts in contact reports distance 0.
// Among equally close hits the one whose normal best opposes the cast wins.
func (w *World) CastShape(q CastQuery) (Hit, bool) {
	var grow mgl64.Vec3
	switch s := q.Shape.(type) {
	case Sphere:
		grow = mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	case Capsule:
		grow = mgl64.Vec3{s.Radius, s.Radius + s.HalfHeight, s.Radius}
	default:
		return Hit{}, false
	}
	if q.Direction.Len() < epsilon || q.MaxDistance < 0 {
		return Hit{}, false
	}
	dir := q.Direction.Normalize()

	var best Hit
	found := false
	for _, s := range w.solids() {
		if slices.Contains(q.Exclude, s.entity) {
			continue
		}
		h, ok := castBox(q.Origin, dir, q.MaxDistance, s.min.Sub(grow), s.max.Add(grow))
		if !ok {
			continue
		}
		if h.Distance == 0 {
			h.Normal = overlapNormal(q.Origin, s.min, s.max, h.Normal)
		}
		h.Entity = s.entity
		h.Point = q.Origin.Add(dir.Mul(h.Distance)).Sub(h.Normal.Mul(grow.Dot(absVec(h.Normal))))
		if !found || better(h, best, dir) {
			best = h
			found = true
		}
	}
	return best, found
}

func better(a, b Hit, dir mgl64.Vec3) bool {
	if math.Abs(a.Distance-b.Distance) > epsilon {
		return a.Distance < b.Distance
	}
	da, db := -a.Normal.Dot(dir), -b.Normal.Dot(dir)
	if math.Abs(da-db) > epsilon {
		return da > db
	}
	return a.Entity.ID < b.Entity.ID
}

// castBox is a slab test of the ray o + t*dir, t in [0, maxDist], against [lo, hi].
func castBox(o, dir mgl64.Vec3, maxDist float64, lo, hi mgl64.Vec3) (Hit, bool) {
	inside := true
	for i := range 3 {
		if o[i] < lo[i] || o[i] > hi[i] {
			inside = false
			break
		}
	}
	if inside {
		return Hit{Normal: leastPenetrationNormal(o, lo, hi)}, true
	}

	tmin, tmax := math.Inf(-1), math.Inf(1)
	axis := -1
	for i := range 3 {
		if math.Abs(dir[i]) < epsilon {
			if o[i] < lo[i] || o[i] > hi[i] {
				return Hit{}, false
			}
			continue
		}
		t1 := (lo[i] - o[i]) / dir[i]
		t2 := (hi[i] - o[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
		}
		tmax = math.Min(tmax, t2)
	}
	if axis < 0 || tmin > tmax || tmin < 0 || tmin > maxDist {
		return Hit{}, false
	}
	var n mgl64.Vec3
	n[axis] = -math.Copysign(1, dir[axis])
	return Hit{Distance: tmin, Normal: n}, true
}

// overlapNormal is the contact normal for a cast that starts in contact:
// the direction from the nearest point of the real box to the origin, or
// the fallback face normal when the origin is inside the box itself.
func overlapNormal(o, lo, hi, fallback mgl64.Vec3) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := range 3 {
		p[i] = mgl64.Clamp(o[i], lo[i], hi[i])
	}
	d := o.Sub(p)
	if l := d.Len(); l > epsilon {
		return d.Mul(1 / l)
	}
	return fallback
}

func absVec(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])}
}
