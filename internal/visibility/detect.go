package visibility

import (
	"fmt"
	"log/slog"

	"golang.org/x/term"
)

// Detect picks the observer for the terminal behind fd. A terminal with a
// measurable size gets a ViewportObserver. Anything else (pipes, redirected
// output, zero-sized ptys) gets an EagerObserver and ErrObserverUnavailable;
// the observer is usable either way.
func Detect(fd uintptr, logger *slog.Logger) (Observer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !term.IsTerminal(int(fd)) {
		logger.Info("no terminal attached, loading eagerly")
		return NewEagerObserver(logger), fmt.Errorf("%w: fd %d is not a terminal", ErrObserverUnavailable, fd)
	}

	w, h, err := term.GetSize(int(fd))
	if err != nil || w <= 0 || h <= 0 {
		logger.Info("terminal size unknown, loading eagerly", "width", w, "height", h, "error", err)
		return NewEagerObserver(logger), fmt.Errorf("%w: terminal size %dx%d", ErrObserverUnavailable, w, h)
	}

	return NewViewportObserver(logger), nil
}
