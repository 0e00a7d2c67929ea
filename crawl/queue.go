package crawl

import (
	"sync"

	"github.com/skitterio/skitter"
)

// queue is an unbounded FIFO work queue with task accounting. Join blocks
// until every pushed URL has been matched by a Done call, which is how the
// crawler detects that the frontier has drained.
type queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	idle     *sync.Cond
	items    []skitter.URL
	pending  int
	closed   bool
}

func newQueue() *queue {
	q := &queue{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Push adds a URL to the queue. Returns false if the queue is closed.
func (q *queue) Push(u skitter.URL) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, u)
	q.pending++
	q.notEmpty.Signal()
	return true
}

// Next blocks until a URL is available or the queue is closed.
// The bool result is false once the queue is closed and drained.
func (q *queue) Next() (skitter.URL, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.closed {
		return skitter.URL{}, false
	}

	u := q.items[0]
	q.items = q.items[1:]
	return u, true
}

// Done marks one previously returned URL as fully processed.
func (q *queue) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending--
	if q.pending <= 0 {
		q.idle.Broadcast()
	}
}

// Join blocks until every pushed URL has been processed or the queue
// is closed.
func (q *queue) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.pending > 0 && !q.closed {
		q.idle.Wait()
	}
}

// Close wakes all waiters. Pushed but unprocessed URLs are discarded.
func (q *queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.notEmpty.Broadcast()
	q.idle.Broadcast()
}
