package scroll

import (
	"math"
	"time"
)

// EaseOutCubic maps normalized progress p in [0,1] to 1-(1-p)^3.
func EaseOutCubic(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}

// Animate scrolls s from start to target over d, writing one interpolated
// offset per frame. When progress reaches 1 it clears the location fragment
// and then calls onDone, once.
//
// Animate does not guard against overlapping runs; callers must ensure only
// one animation is in flight.
func Animate(sched Scheduler, s Scroller, start, target float64, d time.Duration, onDone func()) {
	began := sched.Now()
	distance := target - start

	var step func(now time.Time)
	step = func(now time.Time) {
		p := 1.0
		if d > 0 {
			p = math.Min(float64(now.Sub(began))/float64(d), 1)
		}
		if p < 0 {
			p = 0
		}

		if p < 1 {
			s.ScrollTo(start + distance*EaseOutCubic(p))
			sched.RequestFrame(step)
			return
		}

		s.ScrollTo(target)
		s.ClearFragment()
		if onDone != nil {
			onDone()
		}
	}

	sched.RequestFrame(step)
}
