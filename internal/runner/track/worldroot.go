// Package track streams fixed-length chunks of track geometry past a
// stationary player. Every chunk is a child of one moving WorldRoot, so
// scrolling the root scrolls the whole track.
package track

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/ecs"
)

// WorldRoot is the treadmill frame. Its Z is the negated distance traveled.
type WorldRoot struct {
	scene  *ecs.World
	entity ecs.Entity
}

// NewWorldRoot spawns the root at the origin.
func NewWorldRoot(scene *ecs.World) *WorldRoot {
	return &WorldRoot{scene: scene, entity: scene.Spawn(mgl64.Vec3{}, ecs.Nil)}
}

// Entity is the root's handle, parent of every chunk.
func (r *WorldRoot) Entity() ecs.Entity {
	return r.entity
}

func (r *WorldRoot) Position() mgl64.Vec3 {
	return r.scene.Local(r.entity)
}

// Offset is the root's forward-axis position, always <= 0 while running.
func (r *WorldRoot) Offset() float64 {
	return r.Position().Z()
}

// Advance moves the root by -speed*dt along Z.
func (r *WorldRoot) Advance(dt, speed float64) {
	p := r.Position()
	p[2] -= speed * dt
	r.scene.SetLocal(r.entity, p)
}

// Distance is the total forward travel.
func (r *WorldRoot) Distance() float64 {
	return -r.Offset()
}

// Destroy tears down the root and every chunk under it, returning the number
// of entities removed.
func (r *WorldRoot) Destroy() int {
	return r.scene.DestroyRecursive(r.entity)
}
