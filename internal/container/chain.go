package container

import "context"

type chainKey struct{}

// task identifies one top-level resolution. Every frame pushed beneath it
// shares the same task. It is never zero-sized, so distinct tasks never
// share an address.
type task struct {
	root string
}

type frame struct {
	id     string
	parent *frame
	task   *task
}

// Enter pushes id onto the resolution chain carried by ctx. The chain lives
// in the context passed down the call stack, so concurrent resolutions never
// observe each other's frames. If id is already on the chain, Enter returns
// the cycle path ending with id and false.
func Enter(ctx context.Context, id string) (context.Context, []string, bool) {
	top, _ := ctx.Value(chainKey{}).(*frame)

	for f := top; f != nil; f = f.parent {
		if f.id == id {
			path := pathFrom(top, f)
			return ctx, append(path, id), false
		}
	}

	next := &frame{id: id, parent: top}
	if top != nil {
		next.task = top.task
	} else {
		next.task = &task{root: id}
	}
	return context.WithValue(ctx, chainKey{}, next), nil, true
}

// Path returns the chain carried by ctx, outermost first.
func Path(ctx context.Context) []string {
	top, _ := ctx.Value(chainKey{}).(*frame)
	return pathFrom(top, nil)
}

// pathFrom lists frames from stop (inclusive, or the root when nil) down to
// top, outermost first.
func pathFrom(top, stop *frame) []string {
	var reversed []string
	for f := top; f != nil; f = f.parent {
		reversed = append(reversed, f.id)
		if f == stop {
			break
		}
	}

	path := make([]string, len(reversed))
	for i, id := range reversed {
		path[len(reversed)-1-i] = id
	}
	return path
}
