package collection

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Set is an unordered collection of distinct items.
type Set[T comparable] struct {
	set mapset.Set[T]
}

func NewSet[T comparable](items ...T) *Set[T] {
	return &Set[T]{set: mapset.NewThreadUnsafeSet[T](items...)}
}

func (s *Set[T]) init() {
	if s.set == nil {
		s.set = mapset.NewThreadUnsafeSet[T]()
	}
}

// Items returns the members in no particular order.
func (s *Set[T]) Items() []T {
	s.init()
	return s.set.ToSlice()
}

func (s *Set[T]) Len() int {
	s.init()
	return s.set.Cardinality()
}

func (s *Set[T]) Contains(item T) bool {
	s.init()
	return s.set.Contains(item)
}

// Append reports whether item was added.
func (s *Set[T]) Append(item T) bool {
	s.init()
	return s.set.Add(item)
}

// Extend adds items and returns those that were not members yet, in the
// order given.
func (s *Set[T]) Extend(items ...T) []T {
	s.init()
	var added []T
	for _, item := range items {
		if s.set.Add(item) {
			added = append(added, item)
		}
	}
	return added
}

func (s *Set[T]) Remove(item T) error {
	s.init()
	if !s.set.Contains(item) {
		return fmt.Errorf("%w: %v", ErrNotFound, item)
	}
	s.set.Remove(item)
	return nil
}

// RemoveItems removes the members among items and returns them. Items that
// are not members are ignored.
func (s *Set[T]) RemoveItems(items ...T) []T {
	s.init()
	var removed []T
	for _, item := range items {
		if s.set.Contains(item) {
			s.set.Remove(item)
			removed = append(removed, item)
		}
	}
	return removed
}

func (s *Set[T]) Clear() {
	s.init()
	s.set.Clear()
}

// Equal compares contents.
func (s *Set[T]) Equal(other *Set[T]) bool {
	s.init()
	other.init()
	return s.set.Equal(other.set)
}

func (s *Set[T]) EqualContents(items []T) bool {
	s.init()
	return s.set.Equal(mapset.NewThreadUnsafeSet[T](items...))
}
