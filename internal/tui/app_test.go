package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/hackboard/internal/adapter"
	"github.com/mmcdole/hackboard/internal/assets"
	"github.com/mmcdole/hackboard/internal/catalog"
	"github.com/mmcdole/hackboard/internal/domain"
	"github.com/mmcdole/hackboard/internal/eventloop"
	"github.com/mmcdole/hackboard/internal/lazyimage"
	"github.com/mmcdole/hackboard/internal/visibility"
)

type harness struct {
	m        Model
	q        *eventloop.Queue
	observer visibility.Observer
}

func newHarness(t *testing.T, observer visibility.Observer, source domain.AchievementSource) *harness {
	t.Helper()
	cat := catalog.New(catalogOptions(60, 0), nil)
	if source == nil {
		source = cat
	}
	q := eventloop.NewQueue()
	m := NewModel(Deps{
		Achievements: source,
		Events:       cat,
		Observer:     observer,
		Loop:         q,
		Fetcher:      assets.NewFetcher(nil, 8, 4, 0, adapter.NullLogger()),
		Config:       adapter.DefaultConfig(),
		Logger:       adapter.NullLogger(),
	})
	return &harness{m: m, q: q, observer: observer}
}

func catalogOptions(n, brokenEvery int) catalog.Options {
	opts := catalog.DefaultOptions()
	opts.Achievements = n
	opts.Latency = 0
	opts.BrokenEvery = brokenEvery
	return opts
}

func (h *harness) send(msg tea.Msg) {
	next, _ := h.m.Update(msg)
	h.m = next.(Model)
}

func (h *harness) key(s string) {
	switch s {
	case "tab":
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

// settle delivers completions until the loop is idle.
func (h *harness) settle() {
	for h.q.Drain() > 0 {
		h.m.sync()
	}
}

func TestFeedLoadsOnlyWhatIsVisible(t *testing.T) {
	h := newHarness(t, visibility.NewViewportObserver(nil), nil)

	// Unsized: the root is empty so nothing loads
	h.m.sync()
	if h.q.Pending() != 0 || h.m.Feed.Len() != 0 {
		t.Fatal("loaded before the viewport was known")
	}

	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()

	cards := h.m.Feed.Cards()
	if len(cards) != 12 {
		t.Fatalf("loaded %d cards, want one page of 12", len(cards))
	}
	if got := cards[0].Asset.State(); got != lazyimage.Loaded {
		t.Errorf("first badge = %s, want loaded", got)
	}
	if got := cards[11].Asset.State(); got != lazyimage.Observing {
		t.Errorf("off-screen badge = %s, want observing", got)
	}
	if h.m.trigger.Calls() != 1 {
		t.Errorf("LoadMore calls = %d, want 1", h.m.trigger.Calls())
	}
}

func TestScrollingToSentinelLoadsNextPage(t *testing.T) {
	h := newHarness(t, visibility.NewViewportObserver(nil), nil)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()

	h.key("G")
	if !h.m.loader.loading && h.q.Pending() == 0 {
		t.Fatal("reaching the last card did not request a page")
	}
	h.settle()

	if h.m.Feed.Len() != 24 {
		t.Fatalf("loaded %d cards, want 24", h.m.Feed.Len())
	}
	if h.m.trigger.Calls() != 2 {
		t.Fatalf("LoadMore calls = %d, want 2", h.m.trigger.Calls())
	}
	if got := h.m.Feed.Cards()[11].Asset.State(); got != lazyimage.Loaded {
		t.Errorf("scrolled-in badge = %s, want loaded", got)
	}
}

func TestRefreshUnmountsCards(t *testing.T) {
	h := newHarness(t, visibility.NewViewportObserver(nil), nil)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()
	old := h.m.Feed.Cards()

	h.key("r")
	for i, c := range old {
		if !c.Asset.Disposed() {
			t.Fatalf("card %d not unmounted", i)
		}
		if c.Attached() {
			t.Fatalf("card %d still attached", i)
		}
	}

	h.settle()
	if h.m.Feed.Len() != 12 {
		t.Fatalf("after refresh loaded %d cards, want 12", h.m.Feed.Len())
	}
	if h.m.Feed.Cards()[0] == old[0] {
		t.Fatal("refresh reused old cards")
	}
}

type flakySource struct {
	*catalog.Catalog
	failures int
}

var errFlaky = errors.New("backend hiccup")

func (s *flakySource) ListAchievements(ctx context.Context, cursor string, limit int) (domain.Page[domain.Achievement], error) {
	if s.failures > 0 {
		s.failures--
		return domain.Page[domain.Achievement]{}, errFlaky
	}
	return s.Catalog.ListAchievements(ctx, cursor, limit)
}

func TestPageErrorPausesUntilKeyPress(t *testing.T) {
	src := &flakySource{Catalog: catalog.New(catalogOptions(60, 0), nil), failures: 1}
	h := newHarness(t, visibility.NewViewportObserver(nil), src)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()

	if h.m.Feed.Len() != 0 || !h.m.loader.paused {
		t.Fatalf("len = %d paused = %v, want empty and paused", h.m.Feed.Len(), h.m.loader.paused)
	}
	if !errors.Is(h.m.loader.err, errFlaky) {
		t.Fatalf("err = %v", h.m.loader.err)
	}

	// Sentinel still visible, but no retry without input
	h.m.sync()
	if h.q.Pending() != 0 {
		t.Fatal("retried while paused")
	}

	h.key("j")
	h.settle()
	if h.m.Feed.Len() != 12 {
		t.Fatalf("after resume loaded %d cards, want 12", h.m.Feed.Len())
	}
}

func TestPageErrorReachesStatusLine(t *testing.T) {
	src := &flakySource{Catalog: catalog.New(catalogOptions(60, 0), nil), failures: 1}
	h := newHarness(t, visibility.NewViewportObserver(nil), src)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()

	err := h.m.loader.takeError()
	if !errors.Is(err, errFlaky) {
		t.Fatalf("takeError = %v", err)
	}
	if h.m.loader.takeError() != nil {
		t.Fatal("error reported twice")
	}

	h.send(ErrMsg{Err: err, Context: "loading achievements"})
	if !h.m.StatusIsErr || !strings.Contains(h.m.StatusMsg, "backend hiccup") {
		t.Fatalf("status = %q err = %v", h.m.StatusMsg, h.m.StatusIsErr)
	}
	if !strings.Contains(h.m.View(), "loading achievements") {
		t.Error("footer does not show the error")
	}
}

func TestFilterDetachesSentinel(t *testing.T) {
	h := newHarness(t, visibility.NewViewportObserver(nil), nil)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()

	h.key("/")
	for _, r := range "first" {
		h.key(string(r))
	}
	if !h.m.Feed.IsFilterTyping() {
		t.Fatal("filter not active")
	}
	if n := h.m.Feed.ItemCount(); n == 0 || n >= h.m.Feed.Len() {
		t.Fatalf("filtered count = %d of %d", n, h.m.Feed.Len())
	}
	if _, ok := h.m.Feed.Sentinel().Bounds(); ok {
		t.Fatal("sentinel attached while filtering")
	}

	h.settle()
	if h.m.Feed.Len() != 12 {
		t.Fatalf("filtering loaded more pages: %d", h.m.Feed.Len())
	}
}

func TestCalendarPageHidesFeed(t *testing.T) {
	h := newHarness(t, visibility.NewViewportObserver(nil), nil)
	h.send(tea.WindowSizeMsg{Width: 80, Height: 30})
	h.settle()

	h.key("tab")
	if h.m.Page != PageCalendar {
		t.Fatalf("page = %s", h.m.Page)
	}
	if root := h.observer.(*visibility.ViewportObserver).Root(); !root.Empty() {
		t.Fatalf("root = %+v while calendar shown", root)
	}
	if !strings.Contains(h.m.Calendar.View(), "October 2026") {
		t.Fatal("calendar does not show the event month")
	}

	h.key("]")
	if got := h.m.Calendar.Month().Month(); got != time.November {
		t.Fatalf("month = %s after ]", got)
	}
}

func TestSnapshotLoadsEverythingWithoutViewport(t *testing.T) {
	q := eventloop.NewQueue()
	cat := catalog.New(catalogOptions(30, 7), nil)
	m := NewModel(Deps{
		Achievements: cat,
		Events:       cat,
		Observer:     visibility.NewEagerObserver(nil),
		Loop:         q,
		Fetcher:      assets.NewFetcher(nil, 8, 4, 0, nil),
		Config:       adapter.DefaultConfig(),
		Logger:       adapter.NullLogger(),
	})

	m, view := Snapshot(m, q, 80, 30)
	if m.Feed.Len() != 30 || m.loader.hasMore {
		t.Fatalf("len = %d hasMore = %v, want all 30 loaded", m.Feed.Len(), m.loader.hasMore)
	}
	if !strings.Contains(view, "First Commit") {
		t.Errorf("view missing first card:\n%s", view)
	}

	cards := m.Feed.Cards()
	for i, c := range cards {
		if !c.Asset.State().Terminal() {
			t.Fatalf("card %d badge = %s, want settled", i, c.Asset.State())
		}
	}
	// Card 6 is the first broken primary and has a fallback
	if !cards[6].Asset.UsingFallback() || cards[6].Asset.State() != lazyimage.Loaded {
		t.Errorf("card 6: fallback = %v state = %s", cards[6].Asset.UsingFallback(), cards[6].Asset.State())
	}
	// Card 20 is the third broken badge, which has no fallback
	if cards[20].Asset.State() != lazyimage.Errored {
		t.Errorf("card 20 state = %s, want errored", cards[20].Asset.State())
	}
}
