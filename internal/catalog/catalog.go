// Package catalog serves the dashboard's static mock data: a paged
// achievement feed and a month of hackathon events.
package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/hackboard/internal/domain"
)

// namespace scopes generated record IDs
var namespace = uuid.MustParse("6f1c2a0e-5b7d-4c2e-9a41-2d7f0b8e3c55")

var (
	adjectives = []string{"First", "Midnight", "Relentless", "Pixel", "Hyper", "Quiet", "Lucky", "Wired", "Open", "Final"}
	nouns      = []string{"Commit", "Merge", "Deploy", "Demo", "Pitch", "Patch", "Sprint", "Refactor", "Review", "Build"}
	blurbs     = []string{
		"Pushed code before the first coffee ran out.",
		"Helped another team get unstuck.",
		"Shipped a working demo under the deadline.",
		"Fixed a bug nobody else could reproduce.",
		"Kept the build green for a whole day.",
		"Presented to a full room of judges.",
	}
)

// Options configures the generated data set.
type Options struct {
	Achievements int           // Number of feed records
	Latency      time.Duration // Simulated per-page latency
	BrokenEvery  int           // Every Nth badge has a broken primary image (0 = none)
	OrphanEvery  int           // Every Nth broken badge also lacks a fallback (0 = none)
	Start        time.Time     // First day of the event
}

// DefaultOptions returns the data set the dashboard ships with.
func DefaultOptions() Options {
	return Options{
		Achievements: 60,
		Latency:      400 * time.Millisecond,
		BrokenEvery:  7,
		OrphanEvery:  3,
		Start:        time.Date(2026, time.October, 9, 9, 0, 0, 0, time.Local),
	}
}

// Catalog implements domain.AchievementSource and domain.EventSource.
type Catalog struct {
	opts         Options
	achievements []domain.Achievement
	events       []domain.CalendarEvent
	logger       *slog.Logger
}

// New builds the catalog deterministically from opts.
func New(opts Options, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{opts: opts, logger: logger.With("component", "catalog")}
	c.achievements = generateAchievements(opts)
	c.events = generateEvents(opts.Start)
	return c
}

func generateAchievements(opts Options) []domain.Achievement {
	out := make([]domain.Achievement, 0, opts.Achievements)
	broken := 0
	for i := 0; i < opts.Achievements; i++ {
		title := fmt.Sprintf("%s %s", adjectives[i%len(adjectives)], nouns[(i/len(adjectives)+i)%len(nouns)])
		if i >= len(adjectives)*len(nouns) {
			title = fmt.Sprintf("%s %d", title, i)
		}
		icon := domain.AllIcons[i%len(domain.AllIcons)]

		a := domain.Achievement{
			ID:          uuid.NewSHA1(namespace, []byte(strconv.Itoa(i))).String(),
			Title:       title,
			Description: blurbs[i%len(blurbs)],
			Icon:        icon,
			Rarity:      domain.Rarity(i % 4),
			Points:      50 * (1 + i%5),
			ImageURL:    BadgeSource(icon, i),
		}
		if i%3 != 2 {
			a.EarnedAt = opts.Start.Add(time.Duration(i) * 47 * time.Minute)
		}

		if opts.BrokenEvery > 0 && i%opts.BrokenEvery == opts.BrokenEvery-1 {
			broken++
			a.ImageURL = BrokenSource(i)
			if opts.OrphanEvery == 0 || broken%opts.OrphanEvery != 0 {
				a.FallbackURL = BadgeSource(domain.IconStar, i)
			}
		}
		out = append(out, a)
	}
	return out
}

func generateEvents(start time.Time) []domain.CalendarEvent {
	type spec struct {
		day   int
		hour  int
		hours int
		kind  domain.EventKind
		title string
	}
	specs := []spec{
		{0, 9, 1, domain.EventSocial, "Kickoff breakfast"},
		{0, 11, 2, domain.EventWorkshop, "Intro to the APIs"},
		{1, 14, 2, domain.EventWorkshop, "Design for demos"},
		{1, 20, 3, domain.EventSocial, "Game night"},
		{2, 10, 1, domain.EventDeadline, "Team registration closes"},
		{3, 15, 2, domain.EventWorkshop, "Scaling your prototype"},
		{5, 12, 1, domain.EventDeadline, "Midpoint check-in"},
		{7, 18, 48, domain.EventDemo, "Final sprint"},
		{9, 17, 1, domain.EventDeadline, "Submissions due"},
		{10, 13, 3, domain.EventDemo, "Demo day"},
		{10, 19, 2, domain.EventSocial, "Awards and closing"},
	}

	y, m, d := start.Date()
	base := time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	events := make([]domain.CalendarEvent, 0, len(specs))
	for i, s := range specs {
		begin := base.AddDate(0, 0, s.day).Add(time.Duration(s.hour) * time.Hour)
		events = append(events, domain.CalendarEvent{
			ID:    uuid.NewSHA1(namespace, []byte("event-"+strconv.Itoa(i))).String(),
			Title: s.title,
			Kind:  s.kind,
			Start: begin,
			End:   begin.Add(time.Duration(s.hours) * time.Hour),
		})
	}
	return events
}

// BadgeSource returns the image source for a generated badge.
func BadgeSource(icon domain.BadgeIcon, seed int) string {
	return fmt.Sprintf("mock://badge/%s/%d", icon, seed)
}

// BrokenSource returns an image source that never resolves.
func BrokenSource(seed int) string {
	return fmt.Sprintf("mock://broken/%d", seed)
}

// Total implements domain.AchievementSource.
func (c *Catalog) Total() int {
	return len(c.achievements)
}

// ListAchievements implements domain.AchievementSource.
func (c *Catalog) ListAchievements(ctx context.Context, cursor string, limit int) (domain.Page[domain.Achievement], error) {
	var page domain.Page[domain.Achievement]
	if limit <= 0 {
		return page, fmt.Errorf("page size must be positive, got %d", limit)
	}

	offset, err := decodeCursor(cursor)
	if err != nil {
		return page, err
	}
	if offset > len(c.achievements) {
		return page, fmt.Errorf("%w: offset %d past end", domain.ErrInvalidCursor, offset)
	}

	if c.opts.Latency > 0 {
		select {
		case <-time.After(c.opts.Latency):
		case <-ctx.Done():
			return page, ctx.Err()
		}
	}

	end := min(offset+limit, len(c.achievements))
	page.Items = make([]domain.Achievement, end-offset)
	copy(page.Items, c.achievements[offset:end])
	page.HasMore = end < len(c.achievements)
	if page.HasMore {
		page.NextCursor = encodeCursor(end)
	}

	c.logger.Debug("listed achievements", "offset", offset, "count", len(page.Items), "has_more", page.HasMore)
	return page, nil
}

const cursorPrefix = "ach:"

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidCursor, err)
	}
	s, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: unknown cursor kind", domain.ErrInvalidCursor)
	}
	offset, err := strconv.Atoi(s)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: bad offset %q", domain.ErrInvalidCursor, s)
	}
	return offset, nil
}

// EventsIn implements domain.EventSource.
func (c *Catalog) EventsIn(year int, month time.Month) []domain.CalendarEvent {
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.opts.Start.Location())
	next := first.AddDate(0, 1, 0)

	var out []domain.CalendarEvent
	for _, e := range c.events {
		if e.Start.Before(next) && e.End.After(first) {
			out = append(out, e)
		}
	}
	return out
}

// EventsOn implements domain.EventSource.
func (c *Catalog) EventsOn(day time.Time) []domain.CalendarEvent {
	var out []domain.CalendarEvent
	for _, e := range c.events {
		if e.OnDate(day) {
			out = append(out, e)
		}
	}
	return out
}

// Start returns the first day of the event.
func (c *Catalog) Start() time.Time {
	return c.opts.Start
}
