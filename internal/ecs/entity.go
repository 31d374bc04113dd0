// Package ecs provides a small entity arena: stable integer handles with
// generation counters, typed side tables keyed by those handles, and a
// parent/child transform hierarchy.
package ecs

// Entity is a handle into a Registry. A handle whose version no longer
// matches the registry slot refers to a destroyed entity.
type Entity struct {
	ID      uint32
	Version uint32
}

// Nil is the zero handle; it is never alive.
var Nil = Entity{}

// IsNil reports whether e is the zero handle.
func (e Entity) IsNil() bool {
	return e.ID == 0
}

// Registry allocates and recycles entity handles.
type Registry struct {
	versions  []uint32 // indexed by ID, slot 0 unused
	alive     []bool
	free      []uint32
	count     int
	onDestroy []func(Entity)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		versions: make([]uint32, 1, 64),
		alive:    make([]bool, 1, 64),
	}
}

// Create allocates a new live entity, reusing freed slots with a bumped version.
func (r *Registry) Create() Entity {
	r.count++
	if n := len(r.free); n > 0 {
		id := r.free[n-1]
		r.free = r.free[:n-1]
		r.alive[id] = true
		return Entity{ID: id, Version: r.versions[id]}
	}
	id := uint32(len(r.versions))
	r.versions = append(r.versions, 1)
	r.alive = append(r.alive, true)
	return Entity{ID: id, Version: 1}
}

// Alive reports whether the handle refers to a live entity.
func (r *Registry) Alive(e Entity) bool {
	if e.ID == 0 || int(e.ID) >= len(r.versions) {
		return false
	}
	return r.alive[e.ID] && r.versions[e.ID] == e.Version
}

// Destroy frees the entity and runs destroy hooks so side tables drop its
// rows. Destroying a stale handle is a no-op and returns false.
func (r *Registry) Destroy(e Entity) bool {
	if !r.Alive(e) {
		return false
	}
	for _, fn := range r.onDestroy {
		fn(e)
	}
	r.alive[e.ID] = false
	r.versions[e.ID]++
	r.free = append(r.free, e.ID)
	r.count--
	return true
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.count
}

// OnDestroy registers a hook called for every destroyed entity, before its
// handle becomes stale.
func (r *Registry) OnDestroy(fn func(Entity)) {
	r.onDestroy = append(r.onDestroy, fn)
}
