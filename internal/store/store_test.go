package store

import (
	"testing"
	"time"
)

func TestFrameStorePersists(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFrameStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	key := FrameKey("mock://badge/star/1", 8, 4)
	if err := s.SaveFrame(key, "art"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFrameStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	frame, ok := reopened.GetFrame(key)
	if !ok || frame != "art" {
		t.Fatalf("GetFrame = (%q, %v), want (art, true)", frame, ok)
	}
	if reopened.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reopened.Len())
	}
}

func TestFrameStoreMemoryOnly(t *testing.T) {
	s, err := NewFrameStore("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetFrame("missing"); ok {
		t.Fatal("hit on empty store")
	}
	s.SaveFrame("k", "v")
	if v, ok := s.GetFrame("k"); !ok || v != "v" {
		t.Fatalf("GetFrame = (%q, %v)", v, ok)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Fatal("Clear left entries")
	}
}

func TestFrameStoreExpiry(t *testing.T) {
	s, err := NewFrameStore("", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Unix(1_000_000, 0)
	s.now = func() time.Time { return now }

	s.SaveFrame("k", "v")
	if _, ok := s.GetFrame("k"); !ok {
		t.Fatal("fresh entry missed")
	}

	now = now.Add(2 * time.Hour)
	if _, ok := s.GetFrame("k"); ok {
		t.Fatal("stale entry hit")
	}
}

func TestDeletePrefixAndClear(t *testing.T) {
	s, err := NewFrameStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, src := range []string{"a", "b", "c"} {
		s.SaveFrame(FrameKey(src, 8, 4), src)
		s.SaveFrame(FrameKey(src, 16, 8), src)
	}
	if err := s.DeletePrefix("8x4:"); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.GetFrame(FrameKey("a", 8, 4)); ok {
		t.Fatal("prefix delete kept an entry")
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len after Clear = %d", s.Len())
	}
}
