// Package storage provides the in-memory ordered record store.
//
// # Overview
//
// [Table] is a generic, concurrency-safe, ordered container. Rows keep their
// insertion order; readers always receive clones so callers can never alias
// stored rows. [DiscStore] specializes it for disc records and owns the id
// assignment step so that build and append happen under one lock.
//
// Nothing is persisted. A process restart reloads the seed records.
package storage

import (
	"iter"
	"sync"
)

// Cloner is implemented by types that can clone themselves.
type Cloner[T any] interface {
	Clone() T
}

// Table holds rows in insertion order.
type Table[T Cloner[T]] struct {
	mu   sync.RWMutex
	rows []T
}

// NewTable creates a table holding clones of rows.
func NewTable[T Cloner[T]](rows []T) *Table[T] {
	t := &Table[T]{rows: make([]T, 0, len(rows))}
	for _, r := range rows {
		t.rows = append(t.rows, r.Clone())
	}
	return t
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// All returns an iterator over clones of all rows.
//
// The read lock is held while iterating; do not mutate the table from the
// loop body.
func (t *Table[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, row := range t.rows {
			if !yield(row.Clone()) {
				return
			}
		}
	}
}

// Find returns a clone of the first row matching fn.
func (t *Table[T]) Find(fn func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if fn(row) {
			return row.Clone(), true
		}
	}
	var zero T
	return zero, false
}

// Append adds a row at the end.
func (t *Table[T]) Append(row T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, row.Clone())
}

// AppendWith calls build with the current rows under the write lock and
// appends the row it returns. The rows slice must not be retained.
func (t *Table[T]) AppendWith(build func(rows []T) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	row := build(t.rows)
	t.rows = append(t.rows, row.Clone())
	return row
}

// DeleteFunc removes every row matching fn and returns how many were removed.
func (t *Table[T]) DeleteFunc(fn func(T) bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.rows[:0]
	for _, row := range t.rows {
		if !fn(row) {
			kept = append(kept, row)
		}
	}
	n := len(t.rows) - len(kept)
	clear(t.rows[len(kept):])
	t.rows = kept
	return n
}
