package queue

import "math/rand"

// Queue is an ordered, mutable sequence of items, FIFO by default.
//
// Queue is not goroutine-safe on its own. Each guild session owns exactly
// one queue and serializes access to it under the session lock, so the
// queue itself stays free of locking.
type Queue[T any] struct {
	items []T
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{items: make([]T, 0)}
}

// EnqueueLast appends an item to the back of the queue.
func (q *Queue[T]) EnqueueLast(item T) {
	q.items = append(q.items, item)
}

// EnqueueFirst prepends an item, making it the next to dequeue. Callers
// enqueueing a batch this way must iterate the batch in reverse so the
// final order matches the input order.
func (q *Queue[T]) EnqueueFirst(item T) {
	q.items = append([]T{item}, q.items...)
}

// TryDequeue removes and returns the head of the queue. The second return
// is false when the queue is empty.
func (q *Queue[T]) TryDequeue() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// TryPeek returns the head of the queue without removing it. The second
// return is false when the queue is empty.
func (q *Queue[T]) TryPeek() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// SkipTo drops every item before position i, leaving the item at i as the
// new head. An out-of-range index leaves the queue unchanged.
func (q *Queue[T]) SkipTo(i int) {
	if i < 0 || i >= len(q.items) {
		return
	}
	q.items = q.items[i:]
}

// Shuffle rearranges the queue into a uniformly random permutation.
// Queues with fewer than two items are left untouched.
func (q *Queue[T]) Shuffle() {
	if len(q.items) < 2 {
		return
	}
	rand.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}

// Count returns the number of queued items.
func (q *Queue[T]) Count() int {
	return len(q.items)
}

// GetAll returns a snapshot of the queue in current order. Mutating the
// queue afterwards does not affect the returned slice.
func (q *Queue[T]) GetAll() []T {
	snapshot := make([]T, len(q.items))
	copy(snapshot, q.items)
	return snapshot
}

// Clear removes every item.
func (q *Queue[T]) Clear() {
	q.items = q.items[:0]
}
