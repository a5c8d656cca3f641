// Package history keeps a bounded, linear list of state snapshots with an
// undo/redo cursor.
package history

// DefaultCapacity is the number of snapshots kept when none is configured.
const DefaultCapacity = 50

// History stores deep copies of T. The cursor always points at the snapshot
// that matches the live state.
type History[T any] struct {
	states   []T
	index    int
	capacity int
	clone    func(T) T
}

// New creates an empty history. clone must return a copy that shares no
// mutable memory with its argument.
func New[T any](capacity int, clone func(T) T) *History[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History[T]{
		index:    -1,
		capacity: capacity,
		clone:    clone,
	}
}

// Push records state after the cursor. Snapshots beyond the cursor are
// dropped; when over capacity the oldest snapshot is evicted.
func (h *History[T]) Push(state T) {
	if h.index < len(h.states)-1 {
		h.states = h.states[:h.index+1]
	}
	h.states = append(h.states, h.clone(state))
	h.index = len(h.states) - 1

	if over := len(h.states) - h.capacity; over > 0 {
		var zero T
		for i := 0; i < over; i++ {
			h.states[i] = zero
		}
		h.states = append(h.states[:0], h.states[over:]...)
		h.index -= over
	}
}

// Undo moves the cursor back and returns a copy of that snapshot.
func (h *History[T]) Undo() (T, bool) {
	if !h.CanUndo() {
		var zero T
		return zero, false
	}
	h.index--
	return h.clone(h.states[h.index]), true
}

// Redo moves the cursor forward and returns a copy of that snapshot.
func (h *History[T]) Redo() (T, bool) {
	if !h.CanRedo() {
		var zero T
		return zero, false
	}
	h.index++
	return h.clone(h.states[h.index]), true
}

// Current returns a copy of the snapshot under the cursor.
func (h *History[T]) Current() (T, bool) {
	if h.index < 0 {
		var zero T
		return zero, false
	}
	return h.clone(h.states[h.index]), true
}

// Peek returns the snapshot under the cursor without copying. Callers must not
// modify it.
func (h *History[T]) Peek() (T, bool) {
	if h.index < 0 {
		var zero T
		return zero, false
	}
	return h.states[h.index], true
}

// Replace overwrites the snapshot under the cursor, leaving the cursor and
// the redo branch where they are.
func (h *History[T]) Replace(state T) bool {
	if h.index < 0 {
		return false
	}
	h.states[h.index] = h.clone(state)
	return true
}

// Reset discards every snapshot and records state as the only one.
func (h *History[T]) Reset(state T) {
	h.states = nil
	h.index = -1
	h.Push(state)
}

func (h *History[T]) CanUndo() bool { return h.index > 0 }
func (h *History[T]) CanRedo() bool { return h.index >= 0 && h.index < len(h.states)-1 }
func (h *History[T]) Len() int      { return len(h.states) }
func (h *History[T]) Index() int    { return h.index }
func (h *History[T]) Capacity() int { return h.capacity }
