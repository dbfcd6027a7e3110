package eventloop

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc"
)

// CompletionMsg carries a finished work item back into Bubble Tea's Update.
type CompletionMsg struct {
	apply func()
}

// Apply runs the completion callback. Call it from Update only.
func (m CompletionMsg) Apply() {
	if m.apply != nil {
		m.apply()
	}
}

// TeaLoop adapts Loop to a Bubble Tea program. Work runs on goroutines and
// completions are pumped through a channel that Listen turns into messages.
type TeaLoop struct {
	ch     chan CompletionMsg
	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
	logger *slog.Logger
}

// NewTeaLoop creates a loop bridge. Close it when the program exits.
func NewTeaLoop(logger *slog.Logger) *TeaLoop {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TeaLoop{
		ch:     make(chan CompletionMsg),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

func (l *TeaLoop) Go(ctx context.Context, work func(context.Context) error, done func(error)) {
	workCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)

	l.wg.Go(func() {
		defer cancel()
		defer stop()

		err := work(workCtx)
		select {
		case l.ch <- CompletionMsg{apply: func() { done(err) }}:
		case <-l.ctx.Done():
			l.logger.Debug("dropping completion after shutdown", "error", err)
		}
	})
}

// Listen waits for the next completion. Re-issue it after every
// CompletionMsg to keep the pump running.
func (l *TeaLoop) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-l.ch:
			return msg
		case <-l.ctx.Done():
			return nil
		}
	}
}

// Close cancels outstanding work and waits for it to return.
func (l *TeaLoop) Close() {
	l.cancel()
	l.wg.Wait()
}
