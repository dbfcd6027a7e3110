package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestQueueDefersCompletions(t *testing.T) {
	q := NewQueue()

	var order []string
	q.Go(context.Background(), func(context.Context) error {
		order = append(order, "work-a")
		return nil
	}, func(err error) {
		order = append(order, "done-a")
		// Completions may schedule more work; Drain picks it up.
		q.Go(context.Background(), func(context.Context) error { return nil }, func(error) {
			order = append(order, "done-b")
		})
	})

	if q.Pending() != 1 {
		t.Fatalf("Pending = %d, want 1", q.Pending())
	}
	if len(order) != 1 || order[0] != "work-a" {
		t.Fatalf("completion ran before Drain: %v", order)
	}

	if n := q.Drain(); n != 2 {
		t.Fatalf("Drain = %d, want 2", n)
	}
	want := []string{"work-a", "done-a", "done-b"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if q.Step() {
		t.Fatal("Step on empty queue reported work")
	}
}

func TestRunTyped(t *testing.T) {
	q := NewQueue()
	errBoom := errors.New("boom")

	var got int
	var gotErr error
	Run(q, context.Background(), func(context.Context) (int, error) {
		return 42, errBoom
	}, func(v int, err error) {
		got, gotErr = v, err
	})
	q.Drain()

	if got != 42 || !errors.Is(gotErr, errBoom) {
		t.Fatalf("got (%d, %v)", got, gotErr)
	}
}

func TestTeaLoopDeliversThroughListen(t *testing.T) {
	l := NewTeaLoop(nil)
	defer l.Close()

	delivered := false
	l.Go(context.Background(), func(context.Context) error { return nil }, func(error) {
		delivered = true
	})

	msg := l.Listen()()
	c, ok := msg.(CompletionMsg)
	if !ok {
		t.Fatalf("Listen returned %T", msg)
	}
	if delivered {
		t.Fatal("completion ran off the loop")
	}
	c.Apply()
	if !delivered {
		t.Fatal("Apply did not run the completion")
	}
}

func TestTeaLoopCloseCancelsWork(t *testing.T) {
	l := NewTeaLoop(nil)

	started := make(chan struct{})
	var workErr error
	l.Go(context.Background(), func(ctx context.Context) error {
		close(started)
		select {
		case <-ctx.Done():
			workErr = ctx.Err()
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}, func(error) {
		t.Error("completion delivered after Close")
	})

	<-started
	l.Close()

	if !errors.Is(workErr, context.Canceled) {
		t.Fatalf("work error = %v, want context.Canceled", workErr)
	}
	if msg := l.Listen()(); msg != nil {
		t.Fatalf("Listen after Close returned %T", msg)
	}
}
