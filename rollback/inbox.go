package rollback

import "sync"

// Inbox is the hand-off between transport goroutines and the simulation tick:
// producers Push from any goroutine, the tick Drains at a frame boundary.
// Nothing is dropped; reliable messages must survive a slow tick.
type Inbox[T any] struct {
	mu    sync.Mutex
	items []T
}

func (q *Inbox[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// Drain returns every queued item in arrival order and empties the inbox.
func (q *Inbox[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

func (q *Inbox[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
