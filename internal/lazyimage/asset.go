// Package lazyimage defers image retrieval until the image is about to be
// seen, then resolves it to its primary source or, once, to a fallback.
package lazyimage

import (
	"context"
	"log/slog"

	"github.com/mmcdole/hackboard/internal/eventloop"
	"github.com/mmcdole/hackboard/internal/visibility"
)

// DefaultOptions starts loading slightly before the image scrolls in.
var DefaultOptions = visibility.Options{Threshold: 0.01, RootMargin: "50px"}

// Fetcher retrieves a source and returns its rendered frame. It runs off the
// event loop and should honour ctx cancellation.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, src string) (string, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, src string) (string, error) { return f(ctx, src) }

// Config describes one lazily loaded image.
type Config struct {
	Primary  string
	Fallback string
	Alt      string
	Options  *visibility.Options // nil selects DefaultOptions
}

// Option customizes an Asset.
type Option func(*Asset)

// WithLogger sets the asset's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Asset) { a.logger = logger }
}

// WithOnChange registers a callback invoked on the loop after every state
// transition.
func WithOnChange(fn func(State)) Option {
	return func(a *Asset) { a.onChange = fn }
}

// Asset is the per-image state machine. All methods must be called from the
// event loop that owns observer and loop.
type Asset struct {
	cfg      Config
	opts     visibility.Options
	observer visibility.Observer
	loop     eventloop.Loop
	fetcher  Fetcher
	logger   *slog.Logger
	onChange func(State)

	state        State
	src          string
	frame        string
	err          error
	usedFallback bool
	attempts     int

	sub      *visibility.Subscription
	cancel   context.CancelFunc
	attempt  uint64
	disposed bool
}

// New creates an asset in the Idle state. No work happens until Mount.
func New(cfg Config, observer visibility.Observer, loop eventloop.Loop, fetcher Fetcher, opts ...Option) *Asset {
	a := &Asset{
		cfg:      cfg,
		opts:     DefaultOptions,
		observer: observer,
		loop:     loop,
		fetcher:  fetcher,
		logger:   slog.Default(),
	}
	if cfg.Options != nil {
		a.opts = *cfg.Options
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "lazyimage", "src", cfg.Primary)
	return a
}

// Mount starts observing target. Only the first call on an Idle asset has
// any effect; a remount needs a fresh Asset.
func (a *Asset) Mount(target visibility.Target) {
	if a.disposed || a.state != Idle {
		return
	}
	a.setState(Observing)
	a.sub = a.observer.Register(target, a.onVisible, a.opts)
}

// Unmount disconnects the observer and cancels any retrieval in flight. A
// completion that arrives afterwards is discarded without touching state.
func (a *Asset) Unmount() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.observer.Unregister(a.sub)
	a.sub = nil
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Asset) onVisible() {
	if a.disposed || a.state != Observing {
		return
	}
	a.setState(Visible)

	// Single use: images are not tracked once they start loading.
	a.observer.Unregister(a.sub)
	a.sub = nil

	a.src = a.cfg.Primary
	a.begin()
}

// begin starts retrieval of a.src. Every attempt gets a fresh token so only
// its own completion is accepted.
func (a *Asset) begin() {
	a.attempt++
	token := a.attempt
	a.attempts++

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.setState(Loading)

	src := a.src
	a.logger.Debug("loading", "source", src, "fallback", a.usedFallback)
	eventloop.Run(a.loop, ctx, func(ctx context.Context) (string, error) {
		return a.fetcher.Fetch(ctx, src)
	}, func(frame string, err error) {
		a.settle(token, frame, err)
	})
}

func (a *Asset) settle(token uint64, frame string, err error) {
	if a.disposed || token != a.attempt || a.state != Loading {
		a.logger.Debug("discarding late completion", "source", a.src)
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	if err == nil {
		a.frame = frame
		a.err = nil
		a.setState(Loaded)
		return
	}

	if !a.usedFallback && a.cfg.Fallback != "" {
		a.logger.Info("primary failed, trying fallback", "fallback", a.cfg.Fallback, "error", err)
		a.usedFallback = true
		a.src = a.cfg.Fallback
		a.begin()
		return
	}

	a.err = &LoadError{Source: a.src, Fallback: a.usedFallback, Err: err}
	a.logger.Warn("image unavailable", "error", a.err)
	a.setState(Errored)
}

func (a *Asset) setState(s State) {
	a.state = s
	if a.onChange != nil {
		a.onChange(s)
	}
}

// State returns the current lifecycle state.
func (a *Asset) State() State { return a.state }

// Source returns the assigned source, empty until the asset became visible.
func (a *Asset) Source() string { return a.src }

// Frame returns the rendered image once Loaded.
func (a *Asset) Frame() string { return a.frame }

// Err returns the terminal *LoadError when Errored.
func (a *Asset) Err() error { return a.err }

// Alt returns the alternative text.
func (a *Asset) Alt() string { return a.cfg.Alt }

// Attempts returns how many retrievals were started.
func (a *Asset) Attempts() int { return a.attempts }

// UsingFallback reports whether the fallback source has been assigned.
func (a *Asset) UsingFallback() bool { return a.usedFallback }

// ShowPlaceholder reports whether the placeholder should still be drawn.
func (a *Asset) ShowPlaceholder() bool { return a.state != Loaded }

// Disposed reports whether Unmount has been called.
func (a *Asset) Disposed() bool { return a.disposed }
