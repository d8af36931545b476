package scroll

import (
	"sort"
	"time"
)

// Scheduler provides the two suspension points the controller needs:
// "run again next frame" and a fixed timer.
type Scheduler interface {
	Now() time.Time
	RequestFrame(fn func(now time.Time))
	AfterFunc(d time.Duration, fn func())
}

type timer struct {
	at  time.Time
	seq int
	fn  func()
}

// Loop is a cooperative Scheduler. Nothing runs until the owner calls Tick,
// so every callback executes on the owner's goroutine.
type Loop struct {
	now    time.Time
	frames []func(time.Time)
	timers []timer
	seq    int
}

// NewLoop returns a Loop whose clock starts at start.
func NewLoop(start time.Time) *Loop {
	return &Loop{now: start}
}

// Now returns the time of the last Tick.
func (l *Loop) Now() time.Time { return l.now }

// RequestFrame queues fn for the next Tick.
func (l *Loop) RequestFrame(fn func(now time.Time)) {
	l.frames = append(l.frames, fn)
}

// AfterFunc queues fn to run on the first Tick at or after Now()+d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	l.seq++
	l.timers = append(l.timers, timer{at: l.now.Add(d), seq: l.seq, fn: fn})
}

// Busy reports whether any frame or timer is queued.
func (l *Loop) Busy() bool {
	return len(l.frames) > 0 || len(l.timers) > 0
}

// Advance moves the clock forward to now without running anything. It never
// goes backwards.
func (l *Loop) Advance(now time.Time) {
	if now.After(l.now) {
		l.now = now
	}
}

// Tick advances the clock to now (it never goes backwards), runs the frames
// requested before this call and then every timer that has come due.
// Frames requested during the tick run on the next one.
func (l *Loop) Tick(now time.Time) {
	l.Advance(now)

	frames := l.frames
	l.frames = nil
	for _, fn := range frames {
		fn(l.now)
	}

	for {
		fn, ok := l.popDue()
		if !ok {
			return
		}
		fn()
	}
}

func (l *Loop) popDue() (func(), bool) {
	if len(l.timers) == 0 {
		return nil, false
	}
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].at.Equal(l.timers[j].at) {
			return l.timers[i].seq < l.timers[j].seq
		}
		return l.timers[i].at.Before(l.timers[j].at)
	})
	next := l.timers[0]
	if next.at.After(l.now) {
		return nil, false
	}
	l.timers = l.timers[1:]
	return next.fn, true
}
