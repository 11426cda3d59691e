package status

import (
	"time"

	"github.com/sweeney/alarm-controller/internal/logic"
)

// historySize is the number of transitions kept for display.
const historySize = 8

// TransitionRecord is a state change with the wall-clock time it happened.
type TransitionRecord struct {
	logic.Transition
	At time.Time
}

// history is a fixed-capacity FIFO of recent transitions. Once full, each
// push overwrites the oldest record.
// Not safe for concurrent use; the Tracker lock guards it.
type history struct {
	buf      []TransitionRecord
	capacity int
	head     int // next write position
	count    int
}

func newHistory(capacity int) *history {
	return &history{
		buf:      make([]TransitionRecord, capacity),
		capacity: capacity,
	}
}

func (h *history) push(rec TransitionRecord) {
	h.buf[h.head] = rec
	h.head = (h.head + 1) % h.capacity
	if h.count < h.capacity {
		h.count++
	}
}

// records returns a copy of the history, oldest first.
func (h *history) records() []TransitionRecord {
	if h.count == 0 {
		return nil
	}
	result := make([]TransitionRecord, h.count)
	// Oldest item is at (head - count) mod capacity
	start := (h.head - h.count + h.capacity) % h.capacity
	for i := 0; i < h.count; i++ {
		result[i] = h.buf[(start+i)%h.capacity]
	}
	return result
}
