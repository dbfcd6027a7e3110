package eventloop

import "context"

// Queue is a deterministic Loop. Work executes inline when Go is called but
// its completion waits in a FIFO until Drain. Headless rendering and tests
// use it to step the loop explicitly.
type Queue struct {
	pending []func()
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Go(ctx context.Context, work func(context.Context) error, done func(error)) {
	err := work(ctx)
	q.pending = append(q.pending, func() { done(err) })
}

// Drain runs queued completions until none remain, including any queued by
// the completions themselves. It returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for len(q.pending) > 0 {
		next := q.pending[0]
		q.pending = q.pending[1:]
		next()
		n++
	}
	return n
}

// Step runs a single queued completion and reports whether one ran.
func (q *Queue) Step() bool {
	if len(q.pending) == 0 {
		return false
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	next()
	return true
}

// Pending returns the number of undelivered completions.
func (q *Queue) Pending() int {
	return len(q.pending)
}
