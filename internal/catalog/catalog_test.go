package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/hackboard/internal/domain"
)

func testCatalog() *Catalog {
	opts := DefaultOptions()
	opts.Latency = 0
	return New(opts, nil)
}

func TestPagingWalksWholeFeed(t *testing.T) {
	c := testCatalog()
	ctx := context.Background()

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := c.ListAchievements(ctx, cursor, 25)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		pages++
		for _, a := range page.Items {
			if seen[a.ID] {
				t.Fatalf("duplicate id %s", a.ID)
			}
			seen[a.ID] = true
		}
		if !page.HasMore {
			if page.NextCursor != "" {
				t.Fatalf("last page has cursor %q", page.NextCursor)
			}
			break
		}
		cursor = page.NextCursor
	}

	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
	if len(seen) != c.Total() {
		t.Errorf("saw %d records, want %d", len(seen), c.Total())
	}
}

func TestInvalidCursors(t *testing.T) {
	c := testCatalog()
	tests := []string{
		"%%%",
		encodeCursor(9999),
		"Zm9vOjE", // "foo:1"
	}
	for _, cursor := range tests {
		if _, err := c.ListAchievements(context.Background(), cursor, 10); !errors.Is(err, domain.ErrInvalidCursor) {
			t.Errorf("cursor %q: err = %v, want ErrInvalidCursor", cursor, err)
		}
	}
	if _, err := c.ListAchievements(context.Background(), "", 0); err == nil {
		t.Error("expected error for zero page size")
	}
}

func TestListHonoursCancellation(t *testing.T) {
	opts := DefaultOptions()
	opts.Latency = time.Hour
	c := New(opts, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListAchievements(ctx, "", 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBrokenImagesAndFallbacks(t *testing.T) {
	c := testCatalog()

	var broken, orphans int
	for _, a := range c.achievements {
		if strings.HasPrefix(a.ImageURL, "mock://broken/") {
			broken++
			if a.FallbackURL == "" {
				orphans++
			}
		}
	}
	if broken == 0 || orphans == 0 || orphans == broken {
		t.Fatalf("broken = %d, orphans = %d; want both paths exercised", broken, orphans)
	}
}

func TestDeterministicIDs(t *testing.T) {
	a, b := testCatalog(), testCatalog()
	for i := range a.achievements {
		if a.achievements[i].ID != b.achievements[i].ID {
			t.Fatalf("id %d differs between builds", i)
		}
	}
}

func TestSearch(t *testing.T) {
	c := testCatalog()

	results := c.Search("midnight")
	if len(results) == 0 {
		t.Fatal("no results for midnight")
	}
	for _, r := range results {
		if !strings.Contains(strings.ToLower(r.Title), "midnight") {
			t.Errorf("unexpected match %q", r.Title)
		}
	}
	if c.Search("   ") != nil {
		t.Error("blank query returned results")
	}
}

func TestEvents(t *testing.T) {
	c := testCatalog()
	start := c.Start()

	month := c.EventsIn(start.Year(), start.Month())
	if len(month) == 0 {
		t.Fatal("no events in start month")
	}

	kickoff := c.EventsOn(start)
	if len(kickoff) != 2 {
		t.Fatalf("events on first day = %d, want 2", len(kickoff))
	}

	// The 48h sprint spans three calendar days.
	sprintDays := 0
	for d := 7; d <= 10; d++ {
		for _, e := range c.EventsOn(start.AddDate(0, 0, d)) {
			if e.Title == "Final sprint" {
				sprintDays++
			}
		}
	}
	if sprintDays != 3 {
		t.Errorf("sprint covers %d days, want 3", sprintDays)
	}

	if len(c.EventsIn(start.Year()-1, start.Month())) != 0 {
		t.Error("events found a year early")
	}
}
