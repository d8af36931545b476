package scroll

import (
	"testing"
	"time"
)

type fakeSurface struct {
	y, vh     float64
	rects     []SectionRect
	markers   map[string]float64
	listeners map[int]Listener
	nextID    int
	writes    []float64
	cleared   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		vh: 800,
		rects: []SectionRect{
			{ID: "hero", Top: 0, Height: 800},
			{ID: "about", Top: 800, Height: 800},
			{ID: "work", Top: 1600, Height: 2400},
			{ID: "contact", Top: 4000, Height: 800},
		},
		markers:   map[string]float64{"work-end": 3900},
		listeners: map[int]Listener{},
	}
}

func (f *fakeSurface) ScrollY() float64        { return f.y }
func (f *fakeSurface) ViewportHeight() float64 { return f.vh }
func (f *fakeSurface) Sections() []SectionRect { return f.rects }
func (f *fakeSurface) ClearFragment()          { f.cleared++ }

func (f *fakeSurface) ScrollTo(y float64) {
	f.writes = append(f.writes, y)
	f.scroll(y)
}

func (f *fakeSurface) Marker(id string) (float64, bool) {
	top, ok := f.markers[id]
	return top, ok
}

func (f *fakeSurface) Listen(l Listener) func() {
	id := f.nextID
	f.nextID++
	f.listeners[id] = l
	return func() { delete(f.listeners, id) }
}

// scroll moves the surface and notifies listeners, like native scrolling.
func (f *fakeSurface) scroll(y float64) {
	f.y = y
	for _, l := range f.listeners {
		l.OnScroll()
	}
}

func (f *fakeSurface) wheel(dy float64) *WheelEvent {
	ev := &WheelEvent{DeltaY: dy}
	for _, l := range f.listeners {
		l.OnWheel(ev)
	}
	return ev
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// drain ticks the loop at ~60fps until nothing is queued.
func drain(t *testing.T, l *Loop) {
	t.Helper()
	for i := 0; l.Busy(); i++ {
		if i > 1000 {
			t.Fatal("loop did not go idle")
		}
		l.Tick(l.Now().Add(16 * time.Millisecond))
	}
}

func setup(t *testing.T) (*fakeSurface, *Loop, *Controller) {
	t.Helper()
	s := newFakeSurface()
	l := NewLoop(epoch)
	c := NewController(s, l)
	c.Attach()
	t.Cleanup(c.Detach)
	return s, l, c
}

func TestEaseOutCubic(t *testing.T) {
	if got := EaseOutCubic(0); got != 0 {
		t.Errorf("EaseOutCubic(0) = %v", got)
	}
	if got := EaseOutCubic(1); got != 1 {
		t.Errorf("EaseOutCubic(1) = %v", got)
	}
	if got := EaseOutCubic(0.5); got != 0.875 {
		t.Errorf("EaseOutCubic(0.5) = %v, want 0.875", got)
	}
}

func TestAnimateMonotonicToTarget(t *testing.T) {
	s := newFakeSurface()
	l := NewLoop(epoch)

	done := 0
	Animate(l, s, 0, 1000, 500*time.Millisecond, func() { done++ })
	drain(t, l)

	if len(s.writes) < 2 {
		t.Fatalf("writes = %v, want several frames", s.writes)
	}
	prev := 0.0
	for i, y := range s.writes {
		if y < prev {
			t.Fatalf("write %d = %v decreased from %v", i, y, prev)
		}
		if y < 0 || y > 1000 {
			t.Fatalf("write %d = %v out of range", i, y)
		}
		prev = y
	}
	if last := s.writes[len(s.writes)-1]; last != 1000 {
		t.Errorf("last write = %v, want 1000", last)
	}
	if done != 1 {
		t.Errorf("onDone called %d times, want 1", done)
	}
	if s.cleared != 1 {
		t.Errorf("ClearFragment called %d times, want 1", s.cleared)
	}
}

func TestAnimateOneWritePerFrame(t *testing.T) {
	s := newFakeSurface()
	l := NewLoop(epoch)

	Animate(l, s, 0, 1000, 500*time.Millisecond, nil)
	if len(s.writes) != 0 {
		t.Fatalf("wrote before first frame: %v", s.writes)
	}
	l.Tick(epoch.Add(100 * time.Millisecond))
	if len(s.writes) != 1 {
		t.Fatalf("writes after one frame = %d", len(s.writes))
	}
	// p = 0.2, ease = 1 - 0.8^3 = 0.488
	if got := s.writes[0]; got < 487.9 || got > 488.1 {
		t.Errorf("first frame offset = %v, want ~488", got)
	}
}

func TestAttachPicksInitialSection(t *testing.T) {
	s := newFakeSurface()
	s.y = 850
	c := NewController(s, NewLoop(epoch))
	c.Attach()
	defer c.Detach()

	if c.Current() != 1 {
		t.Errorf("Current = %d, want 1", c.Current())
	}
	if n := len(c.Sections()); n != 4 {
		t.Errorf("sections = %d, want 4", n)
	}
}

func TestNavigateToSettles(t *testing.T) {
	s, l, c := setup(t)

	if !c.NavigateTo(2) {
		t.Fatal("NavigateTo(2) rejected")
	}
	st := c.State()
	if st.Current != 2 || !st.Animating || !st.HasPending || st.Pending != 2 {
		t.Fatalf("state after NavigateTo = %+v", st)
	}

	// Run the animation to completion but stop short of the settle delay.
	for i := 0; i < 40; i++ {
		l.Tick(epoch.Add(time.Duration(i+1) * 16 * time.Millisecond))
	}
	if s.y != 1600 {
		t.Fatalf("scrollY = %v, want 1600", s.y)
	}
	if !c.State().Animating {
		t.Fatal("animating flag cleared before settle delay")
	}

	drain(t, l)
	st = c.State()
	if st.Current != 2 || st.Animating || st.HasPending {
		t.Errorf("state after settle = %+v", st)
	}
}

func TestNavigateToWhileAnimatingIsNoop(t *testing.T) {
	_, l, c := setup(t)

	c.NavigateTo(1)
	before := c.State()
	if c.NavigateTo(3) {
		t.Error("NavigateTo accepted during animation")
	}
	if c.State() != before {
		t.Errorf("state changed: %+v -> %+v", before, c.State())
	}
	drain(t, l)
	if c.Current() != 1 {
		t.Errorf("Current = %d, want 1", c.Current())
	}
}

func TestNavigateToOutOfRange(t *testing.T) {
	_, _, c := setup(t)

	for _, i := range []int{-1, 4, 100} {
		if c.NavigateTo(i) {
			t.Errorf("NavigateTo(%d) accepted", i)
		}
	}
	if st := c.State(); st.Current != 0 || st.Animating {
		t.Errorf("state = %+v", st)
	}
}

func TestTrackingSuppressedWhileAnimating(t *testing.T) {
	s, l, c := setup(t)

	c.NavigateTo(3)
	l.Tick(epoch.Add(16 * time.Millisecond))
	s.scroll(0)
	s.scroll(900)
	if c.Current() != 3 {
		t.Errorf("Current = %d during animation, want 3", c.Current())
	}
	drain(t, l)

	s.scroll(900)
	if c.Current() != 1 {
		t.Errorf("Current = %d after settle, want 1", c.Current())
	}
}

func TestTrackFirstMatch(t *testing.T) {
	s, _, c := setup(t)

	tests := []struct {
		y    float64
		want int
	}{
		{0, 0},
		{399, 0},
		{400, 1},
		{1199, 1},
		{1200, 2},
		{3000, 2},
		{3600, 3},
		{3900, 3},
	}
	for _, tt := range tests {
		s.scroll(tt.y)
		if c.Current() != tt.want {
			t.Errorf("scrollY=%v: Current = %d, want %d", tt.y, c.Current(), tt.want)
		}
	}
}

func TestTrackNoMatchKeepsCurrent(t *testing.T) {
	s, _, c := setup(t)

	s.scroll(900)
	s.scroll(10000)
	if c.Current() != 1 {
		t.Errorf("Current = %d, want 1", c.Current())
	}
}

func TestTrackPinsContentHeavySection(t *testing.T) {
	s, _, c := setup(t)
	// Stretch the layout so the default rule would leave "work" early.
	s.rects[2].Height = 1000
	s.rects[3].Top = 2600
	s.markers["work-end"] = 3500

	s.scroll(2400)
	if c.Current() != 2 {
		t.Errorf("Current = %d before end marker visible, want 2", c.Current())
	}

	s.scroll(2800)
	if c.Current() != 3 {
		t.Errorf("Current = %d after end marker visible, want 3", c.Current())
	}
}

func TestTrackWithoutMarkerUsesDefaultRule(t *testing.T) {
	s, _, c := setup(t)
	s.rects[2].Height = 1000
	s.rects[3].Top = 2600
	delete(s.markers, "work-end")

	s.scroll(2000)
	if c.Current() != 2 {
		t.Fatalf("Current = %d, want 2", c.Current())
	}
	s.scroll(2400)
	if c.Current() != 3 {
		t.Errorf("Current = %d, want 3 once past work's midpoint range", c.Current())
	}
}

func TestSmallWheelNeverNavigates(t *testing.T) {
	s, l, c := setup(t)

	for _, y := range []float64{0, 900, 2000, 4000} {
		s.scroll(y)
		for _, dy := range []float64{30, -30, 5, -12} {
			before := c.State()
			ev := s.wheel(dy)
			if ev.DefaultPrevented() || c.State().Animating {
				t.Errorf("scrollY=%v delta=%v triggered navigation", y, dy)
			}
			if c.State() != before {
				t.Errorf("scrollY=%v delta=%v changed state", y, dy)
			}
			drain(t, l)
		}
	}
}

func TestWheelNavigatesBetweenPlainSections(t *testing.T) {
	s, l, c := setup(t)

	ev := s.wheel(100)
	if !ev.DefaultPrevented() {
		t.Fatal("downward wheel not intercepted")
	}
	if c.Current() != 1 {
		t.Fatalf("Current = %d, want 1", c.Current())
	}
	drain(t, l)
	if s.y != 800 {
		t.Errorf("scrollY = %v, want 800", s.y)
	}

	ev = s.wheel(-100)
	if !ev.DefaultPrevented() || c.Current() != 0 {
		t.Errorf("upward wheel: prevented=%v current=%d", ev.DefaultPrevented(), c.Current())
	}
}

func TestWheelIgnoredWhileAnimating(t *testing.T) {
	s, _, c := setup(t)

	c.NavigateTo(1)
	ev := s.wheel(200)
	if ev.DefaultPrevented() {
		t.Error("wheel intercepted during animation")
	}
	if st := c.State(); st.Current != 1 || st.Pending != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestWheelContentHeavyDownward(t *testing.T) {
	s, l, c := setup(t)

	s.scroll(2000)
	if c.Current() != 2 {
		t.Fatalf("Current = %d, want 2", c.Current())
	}

	ev := s.wheel(120)
	if ev.DefaultPrevented() || c.Current() != 2 {
		t.Fatalf("navigated before end marker visible: current=%d", c.Current())
	}

	s.scroll(3100) // 3100+800 == marker top
	ev = s.wheel(120)
	if !ev.DefaultPrevented() || c.Current() != 3 {
		t.Fatalf("did not navigate once marker visible: current=%d", c.Current())
	}
	drain(t, l)
	if s.y != 4000 {
		t.Errorf("scrollY = %v, want 4000", s.y)
	}
}

func TestWheelContentHeavyUpward(t *testing.T) {
	s, _, c := setup(t)

	s.scroll(2000)
	ev := s.wheel(-120)
	if ev.DefaultPrevented() || c.Current() != 2 {
		t.Fatalf("navigated up while inside section: current=%d", c.Current())
	}

	s.scroll(1680) // top + header allowance
	ev = s.wheel(-120)
	if !ev.DefaultPrevented() || c.Current() != 1 {
		t.Fatalf("did not navigate up at boundary: current=%d", c.Current())
	}
}

func TestWheelContentHeavyWithoutMarker(t *testing.T) {
	s, _, c := setup(t)
	delete(s.markers, "work-end")

	s.scroll(2000)
	if c.Current() != 2 {
		t.Fatalf("Current = %d, want 2", c.Current())
	}
	if ev := s.wheel(120); !ev.DefaultPrevented() || c.Current() != 3 {
		t.Errorf("missing marker should fall back to default rule: current=%d", c.Current())
	}
}

func TestWheelAtEdges(t *testing.T) {
	s, l, c := setup(t)

	ev := s.wheel(-500)
	if ev.DefaultPrevented() || c.Current() != 0 || c.State().Animating {
		t.Errorf("upward at first section: prevented=%v state=%+v", ev.DefaultPrevented(), c.State())
	}

	s.scroll(4000)
	if c.Current() != 3 {
		t.Fatalf("Current = %d, want 3", c.Current())
	}
	ev = s.wheel(500)
	if ev.DefaultPrevented() || c.Current() != 3 || c.State().Animating {
		t.Errorf("downward at last section: prevented=%v state=%+v", ev.DefaultPrevented(), c.State())
	}
	drain(t, l)
}

func TestAttachDetachPairs(t *testing.T) {
	s := newFakeSurface()
	c := NewController(s, NewLoop(epoch))

	c.Detach()
	for i := 0; i < 3; i++ {
		c.Attach()
		c.Attach()
		if n := len(s.listeners); n != 1 {
			t.Fatalf("listeners after attach = %d, want 1", n)
		}
		c.Detach()
		c.Detach()
		if n := len(s.listeners); n != 0 {
			t.Fatalf("listeners after detach = %d, want 0", n)
		}
	}
}

func TestEmptySurfaceIsInert(t *testing.T) {
	s := newFakeSurface()
	s.rects = nil
	l := NewLoop(epoch)
	c := NewController(s, l)
	c.Attach()
	defer c.Detach()

	if c.NavigateTo(0) {
		t.Error("NavigateTo accepted with no sections")
	}
	if ev := s.wheel(500); ev.DefaultPrevented() {
		t.Error("wheel intercepted with no sections")
	}
	s.scroll(100)
	if c.Current() != 0 || l.Busy() {
		t.Errorf("state = %+v busy=%v", c.State(), l.Busy())
	}
}

func TestOnChange(t *testing.T) {
	s, l, c := setup(t)

	var got []int
	c.OnChange(func(i int) { got = append(got, i) })

	s.scroll(900)
	s.scroll(950)
	c.NavigateTo(3)
	drain(t, l)

	want := []int{1, 3}
	if len(got) != len(want) {
		t.Fatalf("changes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("changes = %v, want %v", got, want)
		}
	}
}

func TestOnChangeFiresForInitialSection(t *testing.T) {
	s := newFakeSurface()
	s.y = 850
	c := NewController(s, NewLoop(epoch))

	var got []int
	c.OnChange(func(i int) { got = append(got, i) })
	c.Attach()
	defer c.Detach()

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("changes after Attach = %v, want [1]", got)
	}

	s.y = 4100
	c.Rediscover()
	if len(got) != 2 || got[1] != 3 {
		t.Errorf("changes after Rediscover = %v, want [1 3]", got)
	}
}

func TestRediscover(t *testing.T) {
	s, _, c := setup(t)

	s.rects = append(s.rects, SectionRect{ID: "footer", Top: 4800, Height: 400})
	c.Rediscover()
	if n := len(c.Sections()); n != 5 {
		t.Fatalf("sections = %d, want 5", n)
	}
	if !c.NavigateTo(4) {
		t.Error("NavigateTo(4) rejected after rediscovery")
	}
}

func TestLoopTimersInOrder(t *testing.T) {
	l := NewLoop(epoch)

	var order []string
	l.AfterFunc(200*time.Millisecond, func() { order = append(order, "b") })
	l.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	l.AfterFunc(200*time.Millisecond, func() { order = append(order, "c") })

	l.Tick(epoch.Add(150 * time.Millisecond))
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("order = %v", order)
	}
	l.Tick(epoch.Add(100 * time.Millisecond))
	if !l.Now().Equal(epoch.Add(150 * time.Millisecond)) {
		t.Errorf("clock went backwards: %v", l.Now())
	}
	l.Tick(epoch.Add(200 * time.Millisecond))
	if got := len(order); got != 3 || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v", order)
	}
	if l.Busy() {
		t.Error("loop still busy")
	}
}

func TestLoopAdvanceMovesClockOnly(t *testing.T) {
	l := NewLoop(epoch)
	ran := false
	l.RequestFrame(func(time.Time) { ran = true })

	l.Advance(epoch.Add(10 * time.Second))
	if ran {
		t.Error("Advance ran a queued frame")
	}
	if !l.Now().Equal(epoch.Add(10 * time.Second)) {
		t.Errorf("Now = %v", l.Now())
	}
	l.Advance(epoch)
	if !l.Now().Equal(epoch.Add(10 * time.Second)) {
		t.Errorf("clock went backwards: %v", l.Now())
	}
}

func TestAnimateAfterIdleInterpolates(t *testing.T) {
	s := newFakeSurface()
	l := NewLoop(epoch)
	later := epoch.Add(10 * time.Second)

	l.Advance(later)
	Animate(l, s, 0, 800, 500*time.Millisecond, nil)
	l.Tick(later.Add(16 * time.Millisecond))

	if len(s.writes) != 1 || s.writes[0] <= 0 || s.writes[0] >= 800 {
		t.Errorf("first frame wrote %v, want a point strictly between 0 and 800", s.writes)
	}
}

func TestLoopFramesRequestedDuringTickRunNextTick(t *testing.T) {
	l := NewLoop(epoch)

	runs := 0
	var frame func(time.Time)
	frame = func(time.Time) {
		runs++
		if runs < 3 {
			l.RequestFrame(frame)
		}
	}
	l.RequestFrame(frame)

	l.Tick(epoch)
	if runs != 1 {
		t.Fatalf("runs = %d after one tick", runs)
	}
	l.Tick(epoch)
	l.Tick(epoch)
	if runs != 3 || l.Busy() {
		t.Errorf("runs = %d busy=%v", runs, l.Busy())
	}
}
