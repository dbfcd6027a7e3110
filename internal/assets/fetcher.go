// Package assets resolves badge image sources into terminal art.
package assets

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/store"
)

// Fetcher resolves mock:// sources. It satisfies lazyimage.Fetcher.
//
//	mock://badge/<icon>/<seed>  generated medal
//	mock://broken/<seed>        always fails with domain.ErrUnreachable
type Fetcher struct {
	cache   domain.FrameCache // Optional
	width   int
	height  int
	latency time.Duration
	logger  *slog.Logger
}

// NewFetcher creates a fetcher rendering at width x height cells.
func NewFetcher(cache domain.FrameCache, width, height int, latency time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		cache:   cache,
		width:   width,
		height:  height,
		latency: latency,
		logger:  logger.With("component", "assets"),
	}
}

// Fetch implements lazyimage.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, src string) (string, error) {
	key := store.FrameKey(src, f.width, f.height)
	if f.cache != nil {
		if frame, ok := f.cache.GetFrame(key); ok {
			f.logger.Debug("frame cache hit", "source", src)
			return frame, nil
		}
	}

	if err := f.wait(ctx); err != nil {
		return "", err
	}

	img, err := f.decode(src)
	if err != nil {
		return "", err
	}

	frame := Render(img, f.width, f.height)
	if f.cache != nil {
		if err := f.cache.SaveFrame(key, frame); err != nil {
			f.logger.Warn("failed to cache frame", "source", src, "error", err)
		}
	}
	return frame, nil
}

func (f *Fetcher) wait(ctx context.Context) error {
	if f.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(f.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) decode(src string) (image.Image, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	if u.Scheme != "mock" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrUnreachable, u.Scheme)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch u.Host {
	case "badge":
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: malformed badge source %q", domain.ErrUnreachable, src)
		}
		icon, ok := domain.ParseIcon(parts[0])
		if !ok {
			return nil, fmt.Errorf("%w: unknown icon %q", domain.ErrUnreachable, parts[0])
		}
		seed, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: bad seed %q", domain.ErrUnreachable, parts[1])
		}
		return drawBadge(icon, seed), nil
	case "broken":
		return nil, fmt.Errorf("%w: %s", domain.ErrUnreachable, src)
	default:
		return nil, fmt.Errorf("%w: unknown host %q", domain.ErrUnreachable, u.Host)
	}
}
