package household

import (
	"slices"
	"sync"
)

// Repository is an append-only collection that can be listed, filtered out and cleared.
type Repository[T any] interface {
	Append(item T)
	List() []T
	RemoveFunc(match func(T) bool) int
	Clear()
	Len() int
}

// MemoryRepository keeps items in process memory. Safe for concurrent use.
type MemoryRepository[T any] struct {
	mu    sync.RWMutex
	items []T
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{}
}

func (r *MemoryRepository[T]) Append(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

// List returns a snapshot; callers may modify it freely.
func (r *MemoryRepository[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// RemoveFunc deletes every item for which match returns true and reports how many went.
func (r *MemoryRepository[T]) RemoveFunc(match func(T) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.items)
	r.items = slices.DeleteFunc(r.items, match)
	return before - len(r.items)
}

func (r *MemoryRepository[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

func (r *MemoryRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
