// Package infinitescroll calls a caller's "load more" action when a trailing
// sentinel scrolls into view, guarded by the caller's hasMore/isLoading flags.
//
// The trigger never writes those flags. The caller passes their current
// values to Update on every render; any change tears the old observer
// binding down and creates a new one, so a callback never sees stale flags.
package infinitescroll

import (
	"log/slog"
	"reflect"

	"github.com/mmcdole/hackboard/internal/visibility"
)

// Defaults for the sentinel observer.
const (
	DefaultThreshold  = 0.5
	DefaultRootMargin = "100px"
)

// Loader fetches the next page. Errors are the caller's concern.
type Loader interface {
	LoadMore()
}

// LoaderFunc adapts a function to Loader. Functions are not comparable, so a
// LoaderFunc counts as a new identity on every Update.
type LoaderFunc func()

// LoadMore implements Loader.
func (f LoaderFunc) LoadMore() { f() }

// Option adjusts the sentinel observer.
type Option func(*visibility.Options)

// WithThreshold sets the visible fraction of the sentinel required to fire.
func WithThreshold(t float64) Option {
	return func(o *visibility.Options) { o.Threshold = t }
}

// WithRootMargin sets how far ahead of the viewport the sentinel counts.
func WithRootMargin(m string) Option {
	return func(o *visibility.Options) { o.RootMargin = m }
}

func resolve(opts []Option) visibility.Options {
	o := visibility.Options{Threshold: DefaultThreshold, RootMargin: DefaultRootMargin}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// binding is the immutable input tuple of one observer subscription.
type binding struct {
	loader    Loader
	hasMore   bool
	isLoading bool
	opts      visibility.Options
}

func (b binding) equal(o binding) bool {
	return sameIdentity(b.loader, o.loader) &&
		b.hasMore == o.hasMore &&
		b.isLoading == o.isLoading &&
		b.opts == o.opts
}

// sameIdentity compares interface values without panicking on
// uncomparable dynamic types such as funcs.
func sameIdentity(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Trigger owns the observer binding for one sentinel.
type Trigger struct {
	observer visibility.Observer
	logger   *slog.Logger

	target visibility.Target
	sub    *visibility.Subscription
	cur    binding
	bound  bool
	closed bool
	calls  int
}

// New creates a trigger with nothing attached.
func New(observer visibility.Observer, logger *slog.Logger) *Trigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Trigger{
		observer: observer,
		logger:   logger.With("component", "infinitescroll"),
	}
}

// CreateInfiniteScroll creates a trigger and applies the first inputs. The
// returned trigger is the sentinel handle; Attach it to the trailing row.
func CreateInfiniteScroll(observer visibility.Observer, onLoadMore Loader, hasMore, isLoading bool, opts ...Option) *Trigger {
	t := New(observer, nil)
	t.Update(onLoadMore, hasMore, isLoading, opts...)
	return t
}

// Attach binds the trigger to the sentinel element. Passing nil detaches.
// Attaching a different element rebinds; pass a stable pointer, since
// uncomparable targets such as TargetFunc rebind on every call.
func (t *Trigger) Attach(target visibility.Target) {
	if t.closed || sameIdentity(t.target, target) {
		return
	}
	t.target = target
	t.rebind()
}

// Update feeds the current inputs. Call it on every render.
func (t *Trigger) Update(onLoadMore Loader, hasMore, isLoading bool, opts ...Option) {
	if t.closed {
		return
	}
	next := binding{loader: onLoadMore, hasMore: hasMore, isLoading: isLoading, opts: resolve(opts)}
	if t.bound && t.cur.equal(next) {
		return
	}
	t.cur = next
	t.bound = true
	t.rebind()
}

// rebind disposes the live subscription before creating its replacement.
func (t *Trigger) rebind() {
	t.observer.Unregister(t.sub)
	t.sub = nil

	if !t.bound || t.target == nil {
		return
	}

	b := t.cur
	var sub *visibility.Subscription
	sub = t.observer.Register(t.target, func() { t.fire(sub, b) }, b.opts)
	t.sub = sub
}

func (t *Trigger) fire(sub *visibility.Subscription, b binding) {
	if t.closed || sub != t.sub {
		return
	}
	if !b.hasMore || b.isLoading || b.loader == nil {
		t.logger.Debug("sentinel visible, not loading", "has_more", b.hasMore, "is_loading", b.isLoading)
		return
	}
	t.calls++
	t.logger.Debug("sentinel visible, loading more", "calls", t.calls)
	b.loader.LoadMore()
}

// Close tears the binding down. Later Attach and Update calls are ignored.
func (t *Trigger) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.observer.Unregister(t.sub)
	t.sub = nil
	t.target = nil
}

// Armed reports whether a live observer binding exists.
func (t *Trigger) Armed() bool {
	return t.sub.Active()
}

// Calls returns how many times LoadMore has been invoked.
func (t *Trigger) Calls() int {
	return t.calls
}
