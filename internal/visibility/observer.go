// Package visibility detects when targets enter the visible part of a
// scrollable root and notifies subscribers once per visibility session.
//
// Callbacks are only ever delivered from Check, which the host calls on its
// event loop after layout or scroll changes. Nothing here is safe for use
// from more than one goroutine.
package visibility

import (
	"errors"
	"log/slog"
)

// ErrObserverUnavailable reports that the host cannot measure the viewport.
// Detect still returns a working (eager) observer alongside it.
var ErrObserverUnavailable = errors.New("viewport detection unavailable")

// Options configures when a target counts as visible.
type Options struct {
	// Threshold is the fraction of the target that must be inside the root.
	// Zero means any intersection, including edge contact.
	Threshold float64

	// RootMargin grows the root box, e.g. "100px" or "10px 0px".
	RootMargin string
}

// Observer is the port the loaders depend on.
type Observer interface {
	// Register arms detection for target. onVisible is never called from
	// within Register itself.
	Register(target Target, onVisible func(), opts Options) *Subscription

	// Unregister disarms sub. It is idempotent and accepts nil. Once it
	// returns, the subscription's callback never runs again.
	Unregister(sub *Subscription)

	// Check evaluates armed subscriptions and delivers callbacks.
	Check()

	// Count returns the number of armed subscriptions.
	Count() int
}

// Subscription is the handle returned by Register.
type Subscription struct {
	id        uint64
	target    Target
	onVisible func()
	threshold float64
	margin    Margin
	active    bool
	inSession bool
}

// Active reports whether the subscription is still armed.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// registry holds subscriptions in registration order.
type registry struct {
	logger *slog.Logger
	nextID uint64
	subs   []*Subscription
}

func (r *registry) add(target Target, onVisible func(), opts Options) *Subscription {
	margin, err := ParseMargin(opts.RootMargin)
	if err != nil {
		r.logger.Warn("ignoring root margin", "margin", opts.RootMargin, "error", err)
		margin = Margin{}
	}

	r.nextID++
	sub := &Subscription{
		id:        r.nextID,
		target:    target,
		onVisible: onVisible,
		threshold: clampThreshold(opts.Threshold),
		margin:    margin,
		active:    true,
	}
	r.subs = append(r.subs, sub)
	return sub
}

func (r *registry) remove(sub *Subscription) {
	if sub == nil || !sub.active {
		return
	}
	sub.active = false
	sub.onVisible = nil
	for i, s := range r.subs {
		if s == sub {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			break
		}
	}
}

// snapshot copies the list so callbacks can register or unregister freely.
func (r *registry) snapshot() []*Subscription {
	out := make([]*Subscription, len(r.subs))
	copy(out, r.subs)
	return out
}

// fire runs the callback if the subscription survived earlier callbacks in
// the same Check.
func fire(sub *Subscription) {
	if !sub.active || sub.onVisible == nil {
		return
	}
	sub.onVisible()
}

func clampThreshold(t float64) float64 {
	switch {
	case t != t, t < 0: // NaN or negative
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
