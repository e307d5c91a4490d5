package ecs

// sparseSet stores one component type densely, indexed by entity slot.
type sparseSet[T any] struct {
	dense    []entityID
	values   []*T
	sparse   []int
	entities []Entity
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) has(id entityID) bool {
	if id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.dense) && s.dense[idx] == id
}

func (s *sparseSet[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.values[s.sparse[id-1]], true
}

func (s *sparseSet[T]) set(e Entity, v *T) {
	id := e.id()
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		idx := s.sparse[id-1]
		s.values[idx] = v
		s.entities[idx] = e
		return
	}
	s.dense = append(s.dense, id)
	s.values = append(s.values, v)
	s.entities = append(s.entities, e)
	s.sparse[id-1] = len(s.dense) - 1
}

// remove swaps the last element into the hole.
func (s *sparseSet[T]) remove(id entityID) bool {
	if !s.has(id) {
		return false
	}
	idx := s.sparse[id-1]
	last := len(s.dense) - 1
	lastID := s.dense[last]

	s.dense[idx] = s.dense[last]
	s.values[idx] = s.values[last]
	s.entities[idx] = s.entities[last]
	s.sparse[lastID-1] = idx

	s.dense = s.dense[:last]
	s.values[last] = nil
	s.values = s.values[:last]
	s.entities = s.entities[:last]
	s.sparse[id-1] = -1
	return true
}

func (s *sparseSet[T]) len() int {
	return len(s.dense)
}

// snapshot copies the entity list so callers may add or destroy while
// iterating.
func (s *sparseSet[T]) snapshot() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

func (s *sparseSet[T]) removeEntity(e Entity) bool {
	return s.remove(e.id())
}
