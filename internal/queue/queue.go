// Package queue holds pending ledger writes between flushes.
package queue

import "sync"

// Queue is a mutex-guarded FIFO. The zero value is ready to use.
type Queue[T any] struct {
	mu      sync.Mutex
	pending []T
}

func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends to the back.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	q.pending = append(q.pending, items...)
	q.mu.Unlock()
}

// Requeue puts items back in front of everything pushed since they were
// drained, keeping their order.
func (q *Queue[T]) Requeue(items ...T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(append(make([]T, 0, len(items)+len(q.pending)), items...), q.pending...)
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain hands over everything queued. It returns nil when the queue is empty.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}
