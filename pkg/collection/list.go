package collection

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("collection: item not found")

// List is an ordered sequence whose RemoveItems is the inverse of Extend.
type List[T comparable] struct {
	items []T
}

func NewList[T comparable](items ...T) *List[T] {
	l := &List[T]{}
	l.Extend(items...)
	return l
}

// Items returns a copy of the items in order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List[T]) Len() int {
	return len(l.items)
}

func (l *List[T]) At(i int) T {
	return l.items[i]
}

func (l *List[T]) Index(item T) int {
	for i, existing := range l.items {
		if existing == item {
			return i
		}
	}
	return -1
}

func (l *List[T]) Contains(item T) bool {
	return l.Index(item) >= 0
}

func (l *List[T]) Append(item T) {
	l.items = append(l.items, item)
}

func (l *List[T]) Extend(items ...T) {
	l.items = append(l.items, items...)
}

// Remove removes the first occurrence of item.
func (l *List[T]) Remove(item T) error {
	idx := l.Index(item)
	if idx < 0 {
		return fmt.Errorf("%w: %v", ErrNotFound, item)
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return nil
}

// RemoveItems removes one occurrence of each item. Items that are not in
// the list are skipped and reported with ErrNotFound after the others have
// been removed.
func (l *List[T]) RemoveItems(items ...T) error {
	var missing []T
	for _, item := range items {
		if err := l.Remove(item); err != nil {
			missing = append(missing, item)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrNotFound, missing)
	}
	return nil
}

func (l *List[T]) Clear() {
	l.items = nil
}

// Equal is identity: two lists are equal only if they are the same list.
func (l *List[T]) Equal(other *List[T]) bool {
	return l == other
}

// EqualContents compares the items, in order, with a plain slice.
func (l *List[T]) EqualContents(items []T) bool {
	if len(items) != len(l.items) {
		return false
	}
	for i := range items {
		if items[i] != l.items[i] {
			return false
		}
	}
	return true
}
