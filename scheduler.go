package epirt

import "math"

// Scheduler picks the next event to apply: the earliest of any pending
// contact (one per age class, held in tContact) or any pending
// transition (held in the EventQueue) — spec.md §4.6. It holds no state
// of its own beyond a reference to the queue; the Engine owns tContact
// directly since it is recomputed after every applied event.
type Scheduler struct {
	queue *EventQueue
}

// NewScheduler wraps an EventQueue.
func NewScheduler(queue *EventQueue) *Scheduler {
	return &Scheduler{queue: queue}
}

// NextContact returns the earliest entry in tContact and its age class.
// If every entry is +Inf, ok is false.
func (s *Scheduler) NextContact(tContact []float64) (t float64, ageclass int, ok bool) {
	t = math.Inf(1)
	ageclass = -1
	for a, tc := range tContact {
		if tc < t {
			t = tc
			ageclass = a
		}
	}
	return t, ageclass, ageclass >= 0
}

// NextTransition returns the time of the earliest queued transition
// event, or +Inf if none is pending.
func (s *Scheduler) NextTransition() float64 {
	if t, ok := s.queue.PeekMin(); ok {
		return t
	}
	return math.Inf(1)
}
