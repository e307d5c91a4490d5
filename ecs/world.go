package ecs

import "github.com/milk9111/timemachine/ecs/component"

// storage is the type-erased view of a sparseSet the world needs for
// entity teardown.
type storage interface {
	removeEntity(e Entity) bool
	len() int
}

// World owns entities and one sparse set per component kind. It is not
// safe for concurrent use; everything runs on the game loop.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]storage
}

func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]storage)}
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes e and all of its components. It reports false for
// stale or unknown handles.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.removeEntity(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities lists every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}

// Count reports how many entities carry the component kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	s, ok := lookup(w, kind)
	if !ok {
		return 0
	}
	return s.len()
}
