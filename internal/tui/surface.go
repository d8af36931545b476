package tui

import (
	"math"

	"github.com/Zachkp/folio/internal/scroll"
)

// Surface is a scroll.Surface over a line viewport. Offsets are measured in
// lineHeight units per row.
type Surface struct {
	doc      *document
	offset   float64
	rows     int
	fragment string

	listeners map[int]scroll.Listener
	nextID    int
}

// NewSurface returns a surface showing doc through a viewport rows tall.
func NewSurface(doc *document, rows int) *Surface {
	return &Surface{doc: doc, rows: rows, listeners: map[int]scroll.Listener{}}
}

// ScrollTo moves the viewport, clamped to the document, and notifies
// listeners when the offset changed.
func (s *Surface) ScrollTo(y float64) {
	y = math.Max(0, math.Min(y, s.maxOffset()))
	if y == s.offset {
		return
	}
	s.offset = y
	for _, l := range s.snapshot() {
		l.OnScroll()
	}
}

// ScrollBy scrolls natively by dy.
func (s *Surface) ScrollBy(dy float64) { s.ScrollTo(s.offset + dy) }

// Wheel dispatches a wheel event and scrolls natively unless a listener
// prevented it.
func (s *Surface) Wheel(dy float64) {
	ev := &scroll.WheelEvent{DeltaY: dy}
	for _, l := range s.snapshot() {
		l.OnWheel(ev)
	}
	if !ev.DefaultPrevented() {
		s.ScrollBy(dy)
	}
}

// SetFragment records the anchor a navigation key jumped to.
func (s *Surface) SetFragment(id string) { s.fragment = id }

// Fragment returns the current anchor, or "" once it was cleared.
func (s *Surface) Fragment() string { return s.fragment }

// ClearFragment drops the anchor.
func (s *Surface) ClearFragment() { s.fragment = "" }

func (s *Surface) ScrollY() float64 { return s.offset }

func (s *Surface) ViewportHeight() float64 { return float64(s.rows) * lineHeight }

func (s *Surface) Sections() []scroll.SectionRect {
	out := make([]scroll.SectionRect, len(s.doc.sections))
	copy(out, s.doc.sections)
	return out
}

func (s *Surface) Marker(id string) (float64, bool) {
	top, ok := s.doc.markers[id]
	return top, ok
}

func (s *Surface) Listen(l scroll.Listener) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() { delete(s.listeners, id) }
}

// Resize swaps the document and viewport height, keeping the offset in range.
func (s *Surface) Resize(doc *document, rows int) {
	s.doc = doc
	s.rows = rows
	s.offset = math.Max(0, math.Min(s.offset, s.maxOffset()))
}

// Visible returns the document rows currently in the viewport.
func (s *Surface) Visible() []string {
	first := int(math.Round(s.offset / lineHeight))
	last := min(first+s.rows, len(s.doc.lines))
	if first >= last {
		return nil
	}
	return s.doc.lines[first:last]
}

func (s *Surface) maxOffset() float64 {
	return math.Max(0, s.doc.height()-s.ViewportHeight())
}

func (s *Surface) snapshot() []scroll.Listener {
	out := make([]scroll.Listener, 0, len(s.listeners))
	for i := 0; i < s.nextID; i++ {
		if l, ok := s.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}
