package ecs

import "github.com/milk9111/timemachine/ecs/component"

func lookup[T any](w *World, kind component.ComponentKind[T]) (*sparseSet[T], bool) {
	if w == nil || !kind.Valid() {
		return nil, false
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		return nil, false
	}
	return s.(*sparseSet[T]), true
}

func ensure[T any](w *World, kind component.ComponentKind[T]) *sparseSet[T] {
	if s, ok := lookup(w, kind); ok {
		return s
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}

// Add attaches value to e, replacing any existing component of that kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	ensure(w, kind).set(e, value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s, ok := lookup(w, kind)
	if !ok {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	_, ok := Get(w, e, kind)
	return ok
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s, ok := lookup(w, kind)
	if !ok {
		return false
	}
	return s.remove(e.id())
}

// ForEach visits every entity carrying kind. fn may add, remove or destroy
// freely; entities destroyed before their turn are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s, ok := lookup(w, kind)
	if !ok {
		return
	}
	for _, e := range s.snapshot() {
		v, ok := Get(w, e, kind)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

// ForEach2 visits entities carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	ForEach(w, ka, func(e Entity, a *A) {
		b, ok := Get(w, e, kb)
		if !ok {
			return
		}
		fn(e, a, b)
	})
}

// First returns the first entity carrying kind, for singletons.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s, ok := lookup(w, kind)
	if !ok || s.len() == 0 {
		return 0, false
	}
	return s.entities[0], true
}

// Singleton returns the component of the first entity carrying kind.
func Singleton[T any](w *World, kind component.ComponentKind[T]) (*T, bool) {
	e, ok := First(w, kind)
	if !ok {
		return nil, false
	}
	return Get(w, e, kind)
}
