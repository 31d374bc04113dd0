package ecs

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's translation relative to its parent.
// Rotation and scale are not modelled; nothing in the runner rotates.
type Transform struct {
	Local  mgl64.Vec3
	Parent Entity
}

// World bundles a registry with the transform hierarchy.
type World struct {
	*Registry
	Transforms *Store[Transform]
	children   map[Entity][]Entity
}

// NewWorld creates an empty world.
func NewWorld() *World {
	w := &World{
		Registry: NewRegistry(),
		children: make(map[Entity][]Entity),
	}
	// unlink must run before the transform row is dropped.
	w.Registry.OnDestroy(w.unlink)
	w.Transforms = NewStore[Transform](w.Registry)
	return w
}

// Spawn creates an entity at local position under parent (Nil for a root).
func (w *World) Spawn(local mgl64.Vec3, parent Entity) Entity {
	e := w.Create()
	if !w.Alive(parent) {
		parent = Nil
	}
	w.Transforms.Set(e, Transform{Local: local, Parent: parent})
	if !parent.IsNil() {
		w.children[parent] = append(w.children[parent], e)
	}
	return e
}

// Local returns the entity's local translation.
func (w *World) Local(e Entity) mgl64.Vec3 {
	t, _ := w.Transforms.Get(e)
	return t.Local
}

// SetLocal overwrites the entity's local translation.
func (w *World) SetLocal(e Entity, v mgl64.Vec3) {
	if t := w.Transforms.Ptr(e); t != nil {
		t.Local = v
	}
}

// GlobalPosition composes local translations up the parent chain.
func (w *World) GlobalPosition(e Entity) mgl64.Vec3 {
	var pos mgl64.Vec3
	for depth := 0; w.Alive(e) && depth < 64; depth++ {
		t, ok := w.Transforms.Get(e)
		if !ok {
			break
		}
		pos = pos.Add(t.Local)
		e = t.Parent
	}
	return pos
}

// Children returns the direct children of e.
func (w *World) Children(e Entity) []Entity {
	return w.children[e]
}

// DestroyRecursive destroys e and all of its descendants, children first.
// It returns the number of entities destroyed.
func (w *World) DestroyRecursive(e Entity) int {
	if !w.Alive(e) {
		return 0
	}
	n := 0
	kids := append([]Entity(nil), w.children[e]...)
	for _, c := range kids {
		n += w.DestroyRecursive(c)
	}
	if w.Destroy(e) {
		n++
	}
	return n
}

// unlink detaches a destroyed entity from its parent's child list.
func (w *World) unlink(e Entity) {
	delete(w.children, e)
	t, ok := w.Transforms.Get(e)
	if !ok || t.Parent.IsNil() {
		return
	}
	siblings := w.children[t.Parent]
	for i, s := range siblings {
		if s == e {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(w.children, t.Parent)
	} else {
		w.children[t.Parent] = siblings
	}
}
