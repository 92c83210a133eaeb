package engine

import "sync"

// EventType distinguishes between event kinds.
type EventType int

const (
	// EventTypeSample carries one detected pitch.
	EventTypeSample EventType = iota + 1
	// EventTypeRoot moves the reference frequency.
	EventTypeRoot
	// EventTypeReset clears the frozen anchor.
	EventTypeReset
)

func (t EventType) String() string {
	switch t {
	case EventTypeSample:
		return "sample"
	case EventTypeRoot:
		return "root"
	case EventTypeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is one unit of work for the Run loop.
type Event struct {
	Type   EventType
	Sample Sample
	RootHz float64
}

// eventQueue is a growable ring of events shared by any number of
// producers and the single Run consumer. signal holds at most one token, so
// a burst of Enqueue calls wakes Run once; Run then drains with TryDequeue.
type eventQueue struct {
	mu     sync.Mutex
	ring   []Event // len(ring) is a power of two
	head   int
	n      int
	closed bool
	signal chan struct{}
}

const initialQueueSize = 64

func newEventQueue() *eventQueue {
	return &eventQueue{
		ring:   make([]Event, initialQueueSize),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds e at the tail. It reports false after Close.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if q.n == len(q.ring) {
		q.grow()
	}
	q.ring[(q.head+q.n)&(len(q.ring)-1)] = e
	q.n++

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// grow doubles the ring, unwrapping it so head lands at index 0.
func (q *eventQueue) grow() {
	next := make([]Event, len(q.ring)*2)
	k := copy(next, q.ring[q.head:])
	copy(next[k:], q.ring[:q.head])
	q.ring = next
	q.head = 0
}

// TryDequeue pops the head event, or reports false when nothing is queued.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.n == 0 {
		return Event{}, false
	}
	e := q.ring[q.head]
	q.ring[q.head] = Event{}
	q.head = (q.head + 1) & (len(q.ring) - 1)
	q.n--
	return e, true
}

// Wait is signalled after an Enqueue and closed by Close.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Close rejects later enqueues. Events already queued stay readable.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.signal)
	}
}

func (q *eventQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
