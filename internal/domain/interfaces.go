package domain

import (
	"context"
	"time"
)

// AchievementSource is the paged feed behind the achievements page.
// ListAchievements may block and must be called off the UI loop.
type AchievementSource interface {
	// ListAchievements returns up to limit records after cursor ("" = first page)
	ListAchievements(ctx context.Context, cursor string, limit int) (Page[Achievement], error)

	// Total returns the number of records in the feed
	Total() int
}

// EventSource answers calendar queries. All methods are synchronous.
type EventSource interface {
	// EventsIn returns the events overlapping the given month
	EventsIn(year int, month time.Month) []CalendarEvent

	// EventsOn returns the events overlapping the given day
	EventsOn(day time.Time) []CalendarEvent
}

// FrameCache stores rendered badge frames keyed by source and size.
type FrameCache interface {
	GetFrame(key string) (string, bool)
	SaveFrame(key, frame string) error
	Clear() error
	Close() error
}
