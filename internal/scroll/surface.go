// Package scroll implements single-page section navigation: it tracks which
// page section is active from the scroll position, animates programmatic
// scrolling between sections and decides whether wheel input snaps to the
// next section or scrolls natively inside the current one.
//
// A Controller is driven from a single event loop. It is not safe for
// concurrent use.
package scroll

// SectionRect is one section as measured by the rendering layer.
type SectionRect struct {
	ID     string
	Top    float64
	Height float64
}

// Scroller is the part of a display surface the animation primitive writes to.
type Scroller interface {
	// ScrollTo sets the surface's vertical scroll offset.
	ScrollTo(y float64)
	// ClearFragment drops any anchor/fragment that scrolling appended to the
	// surface's location, keeping history clean.
	ClearFragment()
}

// Surface is the display surface the controller navigates.
type Surface interface {
	Scroller

	ScrollY() float64
	ViewportHeight() float64

	// Sections returns the rendered sections in document order. It is a
	// snapshot and may be called any number of times.
	Sections() []SectionRect

	// Marker returns the top offset of the element with the given id.
	Marker(id string) (top float64, ok bool)

	// Listen subscribes l to scroll and wheel events. The returned func
	// removes the subscription.
	Listen(l Listener) (remove func())
}

// Listener receives surface events.
type Listener interface {
	OnScroll()
	OnWheel(ev *WheelEvent)
}

// WheelEvent is a single wheel input. Positive DeltaY scrolls down.
type WheelEvent struct {
	DeltaY float64

	prevented bool
}

// PreventDefault tells the surface not to apply its native scroll for this event.
func (e *WheelEvent) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *WheelEvent) DefaultPrevented() bool { return e.prevented }
