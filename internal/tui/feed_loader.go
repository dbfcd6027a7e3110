package tui

import (
	"context"
	"log/slog"

	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/eventloop"
	"github.com/mmcdole/hackboard/internal/lazyimage"
	"github.com/mmcdole/hackboard/internal/tui/components"
	"github.com/mmcdole/hackboard/internal/visibility"
)

// feedLoader pages achievements into the feed. It is the infinite scroll
// Loader and owns the hasMore/isLoading flags the trigger is fed with.
// Every method runs on the Bubble Tea loop.
type feedLoader struct {
	source    domain.AchievementSource
	loop      eventloop.Loop
	observer  visibility.Observer
	fetcher   lazyimage.Fetcher
	feed      *components.Feed
	pageSize  int
	imageOpts visibility.Options
	logger    *slog.Logger

	cursor  string
	hasMore bool
	loading bool
	paused  bool // Last page failed; resumes on the next key press
	err     error
	pending error // err until the model has reported it
	pages   int

	gen    int // Bumped by reset so stale pages are dropped
	cancel context.CancelFunc
}

// LoadMore implements infinitescroll.Loader.
func (l *feedLoader) LoadMore() {
	if l.loading || !l.hasMore {
		return
	}
	l.loading = true
	l.feed.SetLoading(true)

	gen, cursor, limit := l.gen, l.cursor, l.pageSize
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel

	l.logger.Debug("loading page", "cursor", cursor, "limit", limit)
	eventloop.Run(l.loop, ctx, func(ctx context.Context) (domain.Page[domain.Achievement], error) {
		return l.source.ListAchievements(ctx, cursor, limit)
	}, func(page domain.Page[domain.Achievement], err error) {
		l.receive(gen, page, err)
	})
}

func (l *feedLoader) receive(gen int, page domain.Page[domain.Achievement], err error) {
	if gen != l.gen {
		l.logger.Debug("discarding page from before refresh")
		return
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
	l.feed.SetLoading(false)

	if err != nil {
		l.err = err
		l.pending = err
		l.paused = true
		l.feed.SetError(err.Error())
		l.logger.Warn("failed to load page", "cursor", l.cursor, "error", err)
		return
	}

	for _, a := range page.Items {
		l.add(a)
	}
	l.cursor = page.NextCursor
	l.hasMore = page.HasMore
	l.pages++
	l.feed.SetHasMore(l.hasMore)
	l.logger.Debug("page loaded", "items", len(page.Items), "has_more", l.hasMore, "loaded", l.feed.Len())
}

// add appends a card and starts observing its badge.
func (l *feedLoader) add(a domain.Achievement) {
	opts := l.imageOpts
	asset := lazyimage.New(lazyimage.Config{
		Primary:  a.ImageURL,
		Fallback: a.FallbackURL,
		Alt:      a.Title,
		Options:  &opts,
	}, l.observer, l.loop, l.fetcher, lazyimage.WithLogger(l.logger))

	card := components.NewCard(a, asset)
	l.feed.Append(card)
	asset.Mount(card)
}

// takeError returns a page error that has not been reported yet.
func (l *feedLoader) takeError() error {
	err := l.pending
	l.pending = nil
	return err
}

// resume clears a paging error so the trigger may fire again.
func (l *feedLoader) resume() {
	if !l.paused {
		return
	}
	l.paused = false
	l.err = nil
	l.feed.SetError("")
}

// reset drops every loaded page, unmounting the cards, and cancels a page
// in flight.
func (l *feedLoader) reset() int {
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	n := l.feed.Reset()
	l.cursor = ""
	l.hasMore = true
	l.loading = false
	l.paused = false
	l.err = nil
	l.pending = nil
	l.pages = 0
	l.feed.SetLoading(false)
	return n
}

// canLoad is the hasMore input handed to the trigger.
func (l *feedLoader) canLoad() bool {
	return l.hasMore && !l.paused
}
