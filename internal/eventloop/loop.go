// Package eventloop runs blocking work off the UI loop and hands the result
// back to it, so every state change stays on a single goroutine.
package eventloop

import "context"

// Loop schedules work and delivers completions on the owning goroutine.
type Loop interface {
	// Go runs work off-loop. done is later invoked on the loop with the
	// result; it must never run concurrently with other loop code.
	Go(ctx context.Context, work func(context.Context) error, done func(error))
}

// Run is the typed form of Loop.Go.
func Run[T any](l Loop, ctx context.Context, work func(context.Context) (T, error), done func(T, error)) {
	var result T
	l.Go(ctx, func(ctx context.Context) error {
		var err error
		result, err = work(ctx)
		return err
	}, func(err error) {
		done(result, err)
	})
}
