package container

import (
	"context"
	"strings"
	"sync"
)

// CycleError reports resolutions in different goroutines that wait on each
// other's in-flight constructions. Path runs from the entry the caller was
// already building, through the entries it waited on, back to that entry.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic wait between concurrent resolutions: " + strings.Join(e.Path, " -> ")
}

// owner is the resolution constructing a slot, identified by its task and
// the chain entry it was building when it claimed the slot.
type owner struct {
	task *task
	id   string
}

type flight struct {
	cache *Cache
	slot  string
}

// waitGraph records which resolution owns each in-flight construction and
// which owner every blocked resolution is waiting for. It spans all caches
// because a cycle may cross singleton and scoped slots alike.
type waitGraph struct {
	mu      sync.Mutex
	owners  map[flight]owner
	waiting map[*task]owner
}

var waits = &waitGraph{
	owners:  make(map[flight]owner),
	waiting: make(map[*task]owner),
}

// acquire either claims f for the resolution carried by ctx or records that
// the resolution is about to wait for the current owner. Joining an owner
// that already waits, directly or transitively, on the caller would never
// complete, so acquire reports a CycleError instead. The returned release
// must be called once the caller leaves the flight.
func (w *waitGraph) acquire(ctx context.Context, f flight) (func(), error) {
	top, _ := ctx.Value(chainKey{}).(*frame)
	if top == nil {
		return func() {}, nil
	}
	me := owner{task: top.task, id: top.id}

	w.mu.Lock()
	defer w.mu.Unlock()

	current, busy := w.owners[f]
	if !busy {
		w.owners[f] = me
		return func() {
			w.mu.Lock()
			if w.owners[f] == me {
				delete(w.owners, f)
			}
			w.mu.Unlock()
		}, nil
	}
	if current.task == me.task {
		return func() {}, nil
	}

	if via := w.waitsOn(current, me.task); via != nil {
		return nil, &CycleError{Path: cyclePath(top, current, via)}
	}

	w.waiting[me.task] = current
	return func() {
		w.mu.Lock()
		delete(w.waiting, me.task)
		w.mu.Unlock()
	}, nil
}

// waitsOn follows the wait edges from o and returns the entries it passes
// through when they lead back to target, or nil when they do not.
func (w *waitGraph) waitsOn(o owner, target *task) []string {
	var via []string
	seen := make(map[*task]bool)
	for !seen[o.task] {
		seen[o.task] = true
		next, ok := w.waiting[o.task]
		if !ok {
			return nil
		}
		via = append(via, next.id)
		if next.task == target {
			return via
		}
		o = next
	}
	return nil
}

// cyclePath joins the caller's chain, starting at the entry the wait edges
// lead back to, with the entries held by the other resolutions.
func cyclePath(top *frame, current owner, via []string) []string {
	chain := pathFrom(top, nil)
	back := via[len(via)-1]

	start := 0
	for i, id := range chain {
		if id == back {
			start = i
			break
		}
	}

	path := append([]string(nil), chain[start:]...)
	if path[len(path)-1] != current.id {
		path = append(path, current.id)
	}
	return append(path, via...)
}
