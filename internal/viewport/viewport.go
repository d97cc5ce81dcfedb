// Package viewport holds the scroll arithmetic for the record list and the
// detail pane. Everything here is pure; sizes are passed on every call.
package viewport

// Selection tracks the selected row and the first visible row of a list.
// The zero value selects row 0 with no scroll.
type Selection struct {
	Index  int
	Offset int
}

// MoveUp selects the previous row. The offset is recomputed so that, once
// the cursor is past the first screen, it sits on the last visible row.
func (s *Selection) MoveUp(length, height int) {
	if length <= 0 || s.Index <= 0 {
		return
	}
	s.Index--
	s.Offset = pinBottom(s.Index, height)
}

// MoveDown selects the next row, recomputing the offset like MoveUp.
func (s *Selection) MoveDown(length, height int) {
	if length <= 0 || s.Index >= length-1 {
		return
	}
	s.Index++
	s.Offset = pinBottom(s.Index, height)
}

// PageUp moves the selection and the window up by one screen.
func (s *Selection) PageUp(length, height int) {
	if length <= 0 {
		return
	}
	height = atLeastOne(height)
	s.Index = max(0, s.Index-height)
	s.Offset = max(0, s.Offset-height)
}

// PageDown moves the selection and the window down by one screen.
func (s *Selection) PageDown(length, height int) {
	if length <= 0 {
		return
	}
	height = atLeastOne(height)
	s.Index = min(length-1, s.Index+height)
	s.Offset = min(max(0, length-height), s.Offset+height)
}

// Fit brings the selection back in bounds after the length or height
// changed underneath it: the index is clamped to the list and the offset is
// moved just enough to keep the selected row visible.
func (s *Selection) Fit(length, height int) {
	height = atLeastOne(height)
	if length <= 0 {
		s.Index, s.Offset = 0, 0
		return
	}
	s.Index = clamp(s.Index, 0, length-1)
	s.Offset = clamp(s.Offset, 0, s.Index)
	if s.Index >= s.Offset+height {
		s.Offset = s.Index - height + 1
	}
}

// Visible reports whether row i is inside the window.
func (s Selection) Visible(i, height int) bool {
	return i >= s.Offset && i < s.Offset+atLeastOne(height)
}

func pinBottom(index, height int) int {
	return max(0, index-atLeastOne(height)+1)
}

// Scroll is the offset into a fixed sequence of display lines.
type Scroll struct {
	Offset int
}

// Up scrolls one line towards the top.
func (s *Scroll) Up(lines, height int) { s.set(s.Offset-1, lines, height) }

// Down scrolls one line towards the bottom.
func (s *Scroll) Down(lines, height int) { s.set(s.Offset+1, lines, height) }

func (s *Scroll) PageUp(lines, height int) { s.set(s.Offset-atLeastOne(height), lines, height) }

func (s *Scroll) PageDown(lines, height int) { s.set(s.Offset+atLeastOne(height), lines, height) }

// Fit re-clamps the offset, e.g. after a resize.
func (s *Scroll) Fit(lines, height int) { s.set(s.Offset, lines, height) }

// MaxOffset is the largest offset that still fills the viewport.
func MaxOffset(lines, height int) int {
	return max(0, lines-atLeastOne(height))
}

func (s *Scroll) set(off, lines, height int) {
	s.Offset = clamp(off, 0, MaxOffset(lines, height))
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
