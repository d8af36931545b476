package scroll

// Section is one navigable page region. Index is its 0-based position in
// document order and never changes after discovery; Top and Height are
// re-measured from layout on every query.
type Section struct {
	ID     string
	Index  int
	Top    float64
	Height float64
}

// Discover queries the surface for its sections in document order.
// It returns nil if the surface has none.
func Discover(s Surface) []Section {
	rects := s.Sections()
	if len(rects) == 0 {
		return nil
	}

	sections := make([]Section, len(rects))
	for i, r := range rects {
		sections[i] = Section{ID: r.ID, Index: i, Top: r.Top, Height: r.Height}
	}
	return sections
}

// remeasure refreshes geometry in place, matching by id. Sections the
// surface no longer reports keep their last known geometry.
func remeasure(sections []Section, rects []SectionRect) {
	if len(sections) == 0 {
		return
	}
	byID := make(map[string]SectionRect, len(rects))
	for _, r := range rects {
		byID[r.ID] = r
	}
	for i := range sections {
		if r, ok := byID[sections[i].ID]; ok {
			sections[i].Top = r.Top
			sections[i].Height = r.Height
		}
	}
}
