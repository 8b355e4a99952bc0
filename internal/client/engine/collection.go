package engine

import (
	"slices"
	"sort"
)

// Record is what a collection can hold: something with an id that can be
// re-issued under another id.
type Record[T any] interface {
	GetID() string
	WithID(id string) T
}

// collection is a copy-on-write list. The backing slice is never written
// after it is published, so keeping a reference to it is a snapshot.
type collection[T Record[T]] struct {
	items []T
}

func (c *collection[T]) snapshot() []T { return c.items }

func (c *collection[T]) restore(items []T) { c.items = items }

func (c *collection[T]) list() []T { return slices.Clone(c.items) }

func (c *collection[T]) index(id string) int {
	for i, v := range c.items {
		if v.GetID() == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) get(id string) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) prepend(v T) {
	next := make([]T, 0, len(c.items)+1)
	next = append(next, v)
	c.items = append(next, c.items...)
}

// replace swaps the record stored under id for v, which may carry another id.
func (c *collection[T]) replace(id string, v T) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(c.items)
	next[i] = v
	c.items = next
	return true
}

func (c *collection[T]) remove(id string) (T, bool) {
	var zero T
	i := c.index(id)
	if i < 0 {
		return zero, false
	}
	removed := c.items[i]
	next := make([]T, 0, len(c.items)-1)
	next = append(next, c.items[:i]...)
	c.items = append(next, c.items[i+1:]...)
	return removed, true
}

// removeWhere drops every record for which match is true and returns them.
func (c *collection[T]) removeWhere(match func(T) bool) []T {
	var removed []T
	next := make([]T, 0, len(c.items))
	for _, v := range c.items {
		if match(v) {
			removed = append(removed, v)
			continue
		}
		next = append(next, v)
	}
	if len(removed) > 0 {
		c.items = next
	}
	return removed
}

// rewrite applies fn to every record and publishes a new slice only when fn
// changed something.
func (c *collection[T]) rewrite(fn func(T) (T, bool)) {
	var next []T
	for i, v := range c.items {
		nv, changed := fn(v)
		if !changed {
			continue
		}
		if next == nil {
			next = slices.Clone(c.items)
		}
		next[i] = nv
	}
	if next != nil {
		c.items = next
	}
}

func (c *collection[T]) sortBy(less func(a, b T) bool) {
	next := slices.Clone(c.items)
	sort.SliceStable(next, func(i, j int) bool { return less(next[i], next[j]) })
	c.items = next
}
