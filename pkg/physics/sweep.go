package physics

import (
	"cmp"
	"slices"
)

type sweepEdge uint8

// End sorts before start so intervals that only touch never become active together.
const (
	edgeEnd sweepEdge = iota
	edgeStart
)

type sweepEvent struct {
	x     float64
	edge  sweepEdge
	index int
}

// Sweep enumerates every overlapping pair of circles with a sort-and-sweep
// along the X axis. visit is called once per pair as (newcomer, active),
// where newcomer is the circle whose interval opened last; callers that need
// both orientations resolve (k, a) and (a, k) themselves.
//
// Visiting order is fully determined by the input: events are ordered by
// coordinate, then edge, then index, and the active set keeps insertion order.
func Sweep(circles []Circle, visit func(k, a int)) {
	sweep(circles, visit)
}

// sweep runs Sweep and returns the active set left after the last event,
// which is empty once every interval has closed.
func sweep(circles []Circle, visit func(k, a int)) []int {
	events := make([]sweepEvent, 0, len(circles)*2)
	for i, c := range circles {
		events = append(events,
			sweepEvent{x: c.MinX(), edge: edgeStart, index: i},
			sweepEvent{x: c.MaxX(), edge: edgeEnd, index: i},
		)
	}
	slices.SortFunc(events, func(a, b sweepEvent) int {
		if c := cmp.Compare(a.x, b.x); c != 0 {
			return c
		}
		if c := cmp.Compare(a.edge, b.edge); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	active := make([]int, 0, 16)
	for _, ev := range events {
		switch ev.edge {
		case edgeStart:
			k := ev.index
			for _, a := range active {
				if circles[k].Collides(circles[a]) {
					visit(k, a)
				}
			}
			// A zero-width interval has already closed; nothing that opens
			// later can reach it under the strict overlap test.
			if circles[k].MaxX() > circles[k].MinX() {
				active = append(active, k)
			}
		case edgeEnd:
			if i := slices.Index(active, ev.index); i >= 0 {
				active = slices.Delete(active, i, i+1)
			}
		}
	}
	return active
}

// Pairs collects the pairs Sweep visits, in visiting order.
func Pairs(circles []Circle) [][2]int {
	var pairs [][2]int
	Sweep(circles, func(k, a int) {
		pairs = append(pairs, [2]int{k, a})
	})
	return pairs
}
