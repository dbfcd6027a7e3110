package domain

import (
	"fmt"
	"time"
)

// BadgeIcon is the closed set of badge glyphs
type BadgeIcon int

const (
	IconStar BadgeIcon = iota
	IconTrophy
	IconRocket
	IconBug
	IconTeam
	IconFlame
	IconCode
)

// AllIcons lists every icon in display order
var AllIcons = []BadgeIcon{IconStar, IconTrophy, IconRocket, IconBug, IconTeam, IconFlame, IconCode}

// IconSpec describes how an icon is drawn
type IconSpec struct {
	Key   string // Stable key used in image sources ("trophy")
	Glyph string // Single-cell fallback glyph
	Color string // Hex color of the badge artwork
}

var iconTable = map[BadgeIcon]IconSpec{
	IconStar:   {Key: "star", Glyph: "★", Color: "#FACC15"},
	IconTrophy: {Key: "trophy", Glyph: "♛", Color: "#E5A00D"},
	IconRocket: {Key: "rocket", Glyph: "▲", Color: "#3B82F6"},
	IconBug:    {Key: "bug", Glyph: "✱", Color: "#10B981"},
	IconTeam:   {Key: "team", Glyph: "☻", Color: "#A855F7"},
	IconFlame:  {Key: "flame", Glyph: "♨", Color: "#EF4444"},
	IconCode:   {Key: "code", Glyph: "⌘", Color: "#06B6D4"},
}

// Spec returns the drawing spec; unknown icons fall back to the star
func (i BadgeIcon) Spec() IconSpec {
	if spec, ok := iconTable[i]; ok {
		return spec
	}
	return iconTable[IconStar]
}

func (i BadgeIcon) String() string {
	return i.Spec().Key
}

// ParseIcon maps a key back to its icon
func ParseIcon(key string) (BadgeIcon, bool) {
	for icon, spec := range iconTable {
		if spec.Key == key {
			return icon, true
		}
	}
	return IconStar, false
}

// Rarity ranks achievements
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// Achievement is an earned or locked hackathon badge
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        BadgeIcon
	Rarity      Rarity
	Points      int

	// Image sources for the badge artwork
	ImageURL    string
	FallbackURL string // Optional

	EarnedAt time.Time // Zero when locked
}

// Earned reports whether the badge has been unlocked
func (a Achievement) Earned() bool {
	return !a.EarnedAt.IsZero()
}

// Subtitle returns secondary info for display (e.g., "epic · 250 pts")
func (a Achievement) Subtitle() string {
	return fmt.Sprintf("%s · %d pts", a.Rarity, a.Points)
}

// EventKind categorizes calendar entries
type EventKind int

const (
	EventWorkshop EventKind = iota
	EventDeadline
	EventDemo
	EventSocial
)

func (k EventKind) String() string {
	switch k {
	case EventWorkshop:
		return "workshop"
	case EventDeadline:
		return "deadline"
	case EventDemo:
		return "demo"
	case EventSocial:
		return "social"
	default:
		return "event"
	}
}

// CalendarEvent is a scheduled hackathon activity
type CalendarEvent struct {
	ID    string
	Title string
	Kind  EventKind
	Start time.Time
	End   time.Time
}

// OnDate reports whether the event overlaps the given calendar day
func (e CalendarEvent) OnDate(day time.Time) bool {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	end := e.End
	if end.Before(e.Start) || end.Equal(e.Start) {
		end = e.Start.Add(time.Nanosecond)
	}
	return e.Start.Before(dayEnd) && end.After(dayStart)
}

// Page is one slice of a paged listing
type Page[T any] struct {
	Items      []T
	NextCursor string // Empty when there is nothing more
	HasMore    bool
}
