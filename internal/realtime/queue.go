package realtime

import (
	"sync"

	"github.com/kavia-common/chess-mastery-platform-309890-309900/internal/wire"
)

// Queue buffers outbound commands issued while the transport is down. It is
// FIFO and unbounded; nothing is dropped while disconnected. Delivery is
// at-least-once: a command caught between a write and a close may be sent
// again on the next connection, which the backend's command handling
// tolerates.
type Queue struct {
	mu    sync.Mutex
	items []wire.Command
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a command at the tail.
func (q *Queue) Enqueue(cmd wire.Command) {
	q.mu.Lock()
	q.items = append(q.items, cmd)
	q.mu.Unlock()
}

// Len returns the number of buffered commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear discards everything buffered. Session teardown only.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// Drain pops commands from the head and hands each to write, in enqueue
// order. It stops the instant a write fails, putting that command back at
// the head so nothing is lost across a mid-flush disconnect.
func (q *Queue) Drain(write func(wire.Command) error) error {
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			return nil
		}
		cmd := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()

		if err := write(cmd); err != nil {
			q.mu.Lock()
			q.items = append([]wire.Command{cmd}, q.items...)
			q.mu.Unlock()
			return err
		}
	}
}
