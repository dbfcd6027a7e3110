package visibility

import "log/slog"

// ViewportObserver computes intersections against a root box supplied by the
// host. Nothing is visible until SetRoot is called with a non-empty box.
type ViewportObserver struct {
	registry
	root Rect
}

// NewViewportObserver creates an observer with an empty root.
func NewViewportObserver(logger *slog.Logger) *ViewportObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewportObserver{registry: registry{logger: logger}}
}

// SetRoot updates the visible box (e.g. after scroll or resize).
func (o *ViewportObserver) SetRoot(root Rect) {
	o.root = root
}

// Root returns the current visible box.
func (o *ViewportObserver) Root() Rect {
	return o.root
}

func (o *ViewportObserver) Register(target Target, onVisible func(), opts Options) *Subscription {
	return o.add(target, onVisible, opts)
}

func (o *ViewportObserver) Unregister(sub *Subscription) {
	o.remove(sub)
}

func (o *ViewportObserver) Count() int {
	return len(o.subs)
}

// Check fires onVisible for every subscription that entered the visible state
// since the previous Check, and ends the session of those that left it.
func (o *ViewportObserver) Check() {
	for _, sub := range o.snapshot() {
		if !sub.active {
			continue
		}
		visible := o.visible(sub)
		if !visible {
			sub.inSession = false
			continue
		}
		if sub.inSession {
			continue
		}
		sub.inSession = true
		fire(sub)
	}
}

func (o *ViewportObserver) visible(sub *Subscription) bool {
	if o.root.Empty() || sub.target == nil {
		return false
	}
	bounds, ok := sub.target.Bounds()
	if !ok {
		return false
	}

	root := o.root.Expand(sub.margin)
	overlap, ok := bounds.Intersect(root)
	if !ok {
		return false
	}
	if sub.threshold == 0 {
		return true
	}

	area := bounds.Area()
	if area == 0 {
		// A zero-area target inside the root is fully visible.
		return true
	}
	return float64(overlap.Area())/float64(area) >= sub.threshold
}
