package visibility

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// box is a movable target.
type box struct {
	rect     Rect
	detached bool
}

func (b *box) Bounds() (Rect, bool) { return b.rect, !b.detached }

func TestViewportFiresOncePerSession(t *testing.T) {
	obs := NewViewportObserver(quietLogger())
	obs.SetRoot(Rect{Width: 80, Height: 20})

	target := &box{rect: Rect{Y: 5, Width: 10, Height: 4}}
	calls := 0
	obs.Register(target, func() { calls++ }, Options{})

	if calls != 0 {
		t.Fatalf("callback ran during Register")
	}

	obs.Check()
	obs.Check()
	obs.Check()
	if calls != 1 {
		t.Fatalf("expected 1 call while staying visible, got %d", calls)
	}

	// Scroll away, then back: a new session.
	obs.SetRoot(Rect{Y: 100, Width: 80, Height: 20})
	obs.Check()
	obs.SetRoot(Rect{Width: 80, Height: 20})
	obs.Check()
	if calls != 2 {
		t.Fatalf("expected 2 calls after re-entering, got %d", calls)
	}
}

func TestViewportThreshold(t *testing.T) {
	tests := []struct {
		name      string
		target    Rect
		threshold float64
		margin    string
		want      bool
	}{
		{"fully inside", Rect{Y: 2, Width: 10, Height: 4}, 1, "", true},
		{"half visible at 0.5", Rect{Y: 18, Width: 10, Height: 4}, 0.5, "", true},
		{"half visible at 0.6", Rect{Y: 18, Width: 10, Height: 4}, 0.6, "", false},
		{"below root", Rect{Y: 30, Width: 10, Height: 4}, 0, "", false},
		{"edge contact at zero threshold", Rect{Y: 20, Width: 10, Height: 4}, 0, "", true},
		{"pulled in by margin", Rect{Y: 24, Width: 10, Height: 4}, 0.5, "10px", true},
		{"shrunk by negative margin", Rect{Y: 1, Width: 10, Height: 2}, 1, "-5px 0px", false},
		{"percent margin", Rect{Y: 25, Width: 10, Height: 2}, 1, "50% 0px", true},
		{"threshold above one is clamped", Rect{Y: 2, Width: 10, Height: 4}, 3, "", true},
		{"zero area sentinel", Rect{Y: 10, Width: 10}, 1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := NewViewportObserver(quietLogger())
			obs.SetRoot(Rect{Width: 80, Height: 20})

			fired := false
			obs.Register(&box{rect: tt.target}, func() { fired = true }, Options{Threshold: tt.threshold, RootMargin: tt.margin})
			obs.Check()

			if fired != tt.want {
				t.Errorf("fired = %v, want %v", fired, tt.want)
			}
		})
	}
}

func TestViewportEmptyRootAndDetached(t *testing.T) {
	obs := NewViewportObserver(quietLogger())
	target := &box{rect: Rect{Width: 10, Height: 2}}
	fired := 0
	obs.Register(target, func() { fired++ }, Options{})

	obs.Check()
	if fired != 0 {
		t.Fatalf("fired with empty root")
	}

	obs.SetRoot(Rect{Width: 80, Height: 20})
	target.detached = true
	obs.Check()
	if fired != 0 {
		t.Fatalf("fired for detached target")
	}

	target.detached = false
	obs.Check()
	if fired != 1 {
		t.Fatalf("expected 1 call once attached, got %d", fired)
	}
}

func TestUnregisterBeforeIntersection(t *testing.T) {
	obs := NewViewportObserver(quietLogger())
	obs.SetRoot(Rect{Width: 80, Height: 20})

	fired := false
	sub := obs.Register(&box{rect: Rect{Width: 10, Height: 2}}, func() { fired = true }, Options{})
	obs.Unregister(sub)
	obs.Unregister(sub) // idempotent
	obs.Unregister(nil)
	obs.Check()

	if fired {
		t.Fatal("callback fired after Unregister")
	}
	if sub.Active() {
		t.Fatal("subscription still active")
	}
	if obs.Count() != 0 {
		t.Fatalf("Count = %d, want 0", obs.Count())
	}
}

func TestUnregisterDuringCheck(t *testing.T) {
	obs := NewViewportObserver(quietLogger())
	obs.SetRoot(Rect{Width: 80, Height: 20})

	var second *Subscription
	secondFired := false
	obs.Register(&box{rect: Rect{Width: 10, Height: 2}}, func() { obs.Unregister(second) }, Options{})
	second = obs.Register(&box{rect: Rect{Y: 4, Width: 10, Height: 2}}, func() { secondFired = true }, Options{})

	obs.Check()
	if secondFired {
		t.Fatal("callback fired for a subscription removed earlier in the same Check")
	}
}

func TestInvalidMarginIsIgnored(t *testing.T) {
	obs := NewViewportObserver(quietLogger())
	obs.SetRoot(Rect{Width: 80, Height: 20})

	fired := false
	obs.Register(&box{rect: Rect{Width: 10, Height: 2}}, func() { fired = true }, Options{RootMargin: "lots"})
	obs.Check()
	if !fired {
		t.Fatal("expected callback with zero margin fallback")
	}
}

func TestParseMargin(t *testing.T) {
	tests := []struct {
		in      string
		want    Margin
		wantErr bool
	}{
		{in: "", want: Margin{}},
		{in: "0", want: Margin{}},
		{in: "4px", want: Margin{Length{Value: 4}, Length{Value: 4}, Length{Value: 4}, Length{Value: 4}}},
		{in: "10px 0px", want: Margin{Length{Value: 10}, Length{}, Length{Value: 10}, Length{}}},
		{in: "1px 2px 3px", want: Margin{Length{Value: 1}, Length{Value: 2}, Length{Value: 3}, Length{Value: 2}}},
		{in: "-2px 5% 0 1px", want: Margin{Length{Value: -2}, Length{Value: 5, Percent: true}, Length{}, Length{Value: 1}}},
		{in: "65536px", want: Margin{Length{Value: MaxLength}, Length{Value: MaxLength}, Length{Value: MaxLength}, Length{Value: MaxLength}}},
		{in: "lots", wantErr: true},
		{in: "4", wantErr: true},
		{in: "1px 2px 3px 4px 5px", wantErr: true},
		{in: "NaNpx", wantErr: true},
		{in: "Infpx", wantErr: true},
		{in: "-Inf%", wantErr: true},
		{in: "1e30px", wantErr: true},
		{in: "65537px", wantErr: true},
		{in: "1001%", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMargin(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMargin) {
					t.Fatalf("err = %v, want ErrInvalidMargin", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOutOfRangeMarginStillLoadsVisibleTarget(t *testing.T) {
	for _, margin := range []string{"NaNpx", "Infpx", "1e30px", "-1e30px"} {
		t.Run(margin, func(t *testing.T) {
			obs := NewViewportObserver(quietLogger())
			obs.SetRoot(Rect{Width: 80, Height: 20})

			fired := false
			obs.Register(&box{rect: Rect{X: 2, Y: 2, Width: 8, Height: 4}}, func() { fired = true }, Options{Threshold: 1, RootMargin: margin})
			obs.Check()
			if !fired {
				t.Fatal("in-view target never became visible")
			}
		})
	}
}

func TestEagerObserver(t *testing.T) {
	obs := NewEagerObserver(quietLogger())

	calls := 0
	obs.Register(TargetFunc(func() (Rect, bool) { return Rect{}, false }), func() { calls++ }, Options{Threshold: 1})
	dropped := obs.Register(nil, func() { calls += 100 }, Options{})
	obs.Unregister(dropped)

	if calls != 0 {
		t.Fatal("eager observer fired during Register")
	}
	obs.Check()
	obs.Check()
	if calls != 1 {
		t.Fatalf("expected exactly one eager call, got %d", calls)
	}
}

func TestDetectFallsBackWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	obs, err := Detect(f.Fd(), quietLogger())
	if !errors.Is(err, ErrObserverUnavailable) {
		t.Fatalf("expected ErrObserverUnavailable, got %v", err)
	}
	if _, ok := obs.(*EagerObserver); !ok {
		t.Fatalf("expected eager observer, got %T", obs)
	}
}
