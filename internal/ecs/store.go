package ecs

// Store is a typed side table holding at most one T per entity.
// Rows are packed densely; removal swaps the last row into the hole.
type Store[T any] struct {
	dense  []T
	owners []Entity
	sparse map[uint32]int
}

// NewStore creates a store whose rows are dropped when their entity is
// destroyed in r. A nil registry yields a detached store.
func NewStore[T any](r *Registry) *Store[T] {
	s := &Store[T]{sparse: make(map[uint32]int)}
	if r != nil {
		r.OnDestroy(func(e Entity) { s.Remove(e) })
	}
	return s
}

// Set inserts or replaces the row for e.
func (s *Store[T]) Set(e Entity, v T) {
	if i, ok := s.index(e); ok {
		s.dense[i] = v
		return
	}
	s.sparse[e.ID] = len(s.dense)
	s.dense = append(s.dense, v)
	s.owners = append(s.owners, e)
}

// Get returns a copy of the row for e.
func (s *Store[T]) Get(e Entity) (T, bool) {
	if i, ok := s.index(e); ok {
		return s.dense[i], true
	}
	var zero T
	return zero, false
}

// Ptr returns a pointer to the row for e, valid until the next Set or Remove.
func (s *Store[T]) Ptr(e Entity) *T {
	if i, ok := s.index(e); ok {
		return &s.dense[i]
	}
	return nil
}

// Has reports whether e has a row.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.index(e)
	return ok
}

// Remove deletes the row for e, if any.
func (s *Store[T]) Remove(e Entity) bool {
	i, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if i != last {
		s.dense[i] = s.dense[last]
		s.owners[i] = s.owners[last]
		s.sparse[s.owners[i].ID] = i
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.owners = s.owners[:last]
	delete(s.sparse, e.ID)
	return true
}

// Len returns the number of rows.
func (s *Store[T]) Len() int {
	return len(s.dense)
}

// Each calls fn for every row. fn must not add or remove rows.
func (s *Store[T]) Each(fn func(Entity, *T)) {
	for i := range s.dense {
		fn(s.owners[i], &s.dense[i])
	}
}

// Entities returns a snapshot of the entities that own rows, safe to
// iterate while removing.
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, len(s.owners))
	copy(out, s.owners)
	return out
}

func (s *Store[T]) index(e Entity) (int, bool) {
	i, ok := s.sparse[e.ID]
	if !ok || s.owners[i] != e {
		return 0, false
	}
	return i, true
}
