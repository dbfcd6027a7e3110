package visibility

import "log/slog"

// EagerObserver is used when the viewport cannot be measured. Every
// registered target is treated as visible on the next Check, exactly once,
// so content still loads instead of waiting forever.
type EagerObserver struct {
	registry
}

// NewEagerObserver creates an eager observer.
func NewEagerObserver(logger *slog.Logger) *EagerObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &EagerObserver{registry: registry{logger: logger}}
}

func (o *EagerObserver) Register(target Target, onVisible func(), opts Options) *Subscription {
	return o.add(target, onVisible, opts)
}

func (o *EagerObserver) Unregister(sub *Subscription) {
	o.remove(sub)
}

func (o *EagerObserver) Count() int {
	return len(o.subs)
}

func (o *EagerObserver) Check() {
	for _, sub := range o.snapshot() {
		if !sub.active || sub.inSession {
			continue
		}
		sub.inSession = true
		fire(sub)
	}
}
