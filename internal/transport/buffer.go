package transport

import "github.com/sweeney/ring-mouse/internal/logger"

// systemQueue holds lifecycle events raised while the broker is
// unreachable, oldest first. Bounded: a push into a full queue discards
// the oldest event. Callers synchronize access.
type systemQueue struct {
	events   []SystemEvent
	capacity int
	dropping bool
}

func newSystemQueue(capacity int) *systemQueue {
	return &systemQueue{capacity: capacity}
}

func (q *systemQueue) push(ev SystemEvent) {
	if len(q.events) == q.capacity {
		if !q.dropping {
			logger.Warn().Int("capacity", q.capacity).Msg("offline event queue full, dropping oldest")
			q.dropping = true
		}
		copy(q.events, q.events[1:])
		q.events[len(q.events)-1] = ev
		return
	}
	q.events = append(q.events, ev)
}

// drainAll empties the queue and returns the events in arrival order.
func (q *systemQueue) drainAll() []SystemEvent {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	q.dropping = false
	return out
}

func (q *systemQueue) len() int {
	return len(q.events)
}
