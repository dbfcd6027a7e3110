package lazyimage

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of a lazy asset.
type State int

const (
	Idle State = iota
	Observing
	Visible
	Loading
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Observing:
		return "observing"
	case Visible:
		return "visible"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is defined.
func (s State) Terminal() bool {
	return s == Loaded || s == Errored
}

var (
	// ErrAssetLoad marks a failed retrieval of the primary source.
	ErrAssetLoad = errors.New("asset load failed")

	// ErrFallbackLoad marks a failed retrieval of the fallback source.
	ErrFallbackLoad = errors.New("fallback load failed")
)

// LoadError records which source failed and why.
type LoadError struct {
	Source   string
	Fallback bool
	Err      error
}

func (e *LoadError) Error() string {
	kind := ErrAssetLoad
	if e.Fallback {
		kind = ErrFallbackLoad
	}
	return fmt.Sprintf("%s: %s: %v", kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() []error {
	kind := ErrAssetLoad
	if e.Fallback {
		kind = ErrFallbackLoad
	}
	return []error{kind, e.Err}
}
