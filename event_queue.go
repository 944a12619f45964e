package epirt

import "sort"

// event is a pending transition: individual id, scheduled to fire at
// time t.
type event struct {
	t  float64
	id int
}

// less orders events lexicographically by (t, id), as spec.md §3/§4.5
// require: ties are broken by individual id, ascending.
func (e event) less(other event) bool {
	if e.t != other.t {
		return e.t < other.t
	}
	return e.id < other.id
}

// EventQueue is an ordered set of pending transition events keyed by
// (time, individual id) — spec.md §4.5. There is at most one queued
// event per live individual, so the backing store is a sorted slice
// plus an id→slot index. Insert finds its position by binary search;
// insert and remove then shift the slice and reindex the moved slots,
// which is O(n). Peek is O(1).
type EventQueue struct {
	events []event
	slots  map[int]int // individual id -> index into events
}

// NewEventQueue creates an empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{slots: make(map[int]int)}
}

// Insert adds a pending event at time t for individual id. id must not
// already have a queued event.
func (q *EventQueue) Insert(t float64, id int) {
	if _, exists := q.slots[id]; exists {
		panic("epirt: EventQueue.Insert called for an id with a pending event")
	}
	e := event{t: t, id: id}
	i := sort.Search(len(q.events), func(i int) bool { return e.less(q.events[i]) })
	q.events = append(q.events, event{})
	copy(q.events[i+1:], q.events[i:])
	q.events[i] = e
	q.reindexFrom(i)
}

// Remove deletes the pending event for id, which must exist.
func (q *EventQueue) Remove(id int) {
	i, exists := q.slots[id]
	if !exists {
		panic("epirt: EventQueue.Remove called for an id with no pending event")
	}
	q.events = append(q.events[:i], q.events[i+1:]...)
	delete(q.slots, id)
	q.reindexFrom(i)
}

func (q *EventQueue) reindexFrom(i int) {
	for ; i < len(q.events); i++ {
		q.slots[q.events[i].id] = i
	}
}

// PeekMin returns the time of the earliest pending event and true, or
// (0, false) if the queue is empty.
func (q *EventQueue) PeekMin() (float64, bool) {
	if len(q.events) == 0 {
		return 0, false
	}
	return q.events[0].t, true
}

// PopMin removes and returns the earliest pending event, or false if the
// queue is empty.
func (q *EventQueue) PopMin() (t float64, id int, ok bool) {
	if len(q.events) == 0 {
		return 0, 0, false
	}
	e := q.events[0]
	q.Remove(e.id)
	return e.t, e.id, true
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}
