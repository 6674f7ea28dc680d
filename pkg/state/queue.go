package state

import "sync"

// Queue is an unbounded FIFO of store events.
// Thread-Safety:
//   - Push: any goroutine, never blocks on the store
//   - Flush: frame goroutine only
type Queue struct {
	mu      sync.Mutex
	pending []Event
	notify  chan struct{}
}

func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends e and wakes the frame loop.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.pending = append(q.pending, e)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Notify receives a value after one or more pushes.
func (q *Queue) Notify() <-chan struct{} {
	return q.notify
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush applies every pending event in submission order and returns the
// number applied. Events pushed during the flush, for example by a
// destructor releasing nested handles, wait for the next flush.
func (q *Queue) Flush(c *Controller, w *Watcher) int {
	return q.FlushFunc(c, w, nil)
}

// FlushFunc is Flush with an optional callback after each applied event.
func (q *Queue) FlushFunc(c *Controller, w *Watcher, fn func(Event)) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	// Pushes taken into this batch need no further wakeup. Later pushes
	// append under the lock, so their signal lands after this drain.
	select {
	case <-q.notify:
	default:
	}
	q.mu.Unlock()

	for _, e := range batch {
		e.apply(c, w)
		if fn != nil {
			fn(e)
		}
	}
	return len(batch)
}
