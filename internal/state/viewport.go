package state

// Viewport tracks a cursor row and the first visible row over Len rows.
type Viewport struct {
	Cursor int
	Offset int
	Len    int
}

// SetLen changes the row count and clamps the cursor.
func (v *Viewport) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	v.Len = n
	v.clamp()
}

// MoveHome moves the cursor to the first row.
func (v *Viewport) MoveHome() bool {
	if v.Len == 0 {
		v.Cursor = 0
		return false
	}
	old := v.Cursor
	v.Cursor = 0
	return old != v.Cursor
}

// MoveEnd moves the cursor to the last row.
func (v *Viewport) MoveEnd() bool {
	if v.Len == 0 {
		v.Cursor = 0
		return false
	}
	old := v.Cursor
	v.Cursor = v.Len - 1
	return old != v.Cursor
}

// PageUp moves the cursor up by the given page size.
func (v *Viewport) PageUp(maxVisible int) bool {
	return v.MoveBy(-v.pageSize(maxVisible))
}

// PageDown moves the cursor down by the given page size.
func (v *Viewport) PageDown(maxVisible int) bool {
	return v.MoveBy(v.pageSize(maxVisible))
}

func (v *Viewport) MoveBy(delta int) bool {
	if v.Len == 0 {
		v.Cursor = 0
		return false
	}
	old := v.Cursor
	v.Cursor += delta
	v.clamp()
	return v.Cursor != old
}

// SetCursor places the cursor on row, clamped.
func (v *Viewport) SetCursor(row int) {
	v.Cursor = row
	v.clamp()
}

func (v *Viewport) pageSize(maxVisible int) int {
	if v.Len == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > v.Len {
		size = v.Len
	}
	if size < 1 {
		size = 1
	}
	return size
}

func (v *Viewport) clamp() {
	if v.Cursor >= v.Len {
		v.Cursor = v.Len - 1
	}
	if v.Cursor < 0 {
		v.Cursor = 0
	}
}

// EnsureVisible adjusts the offset so the cursor stays visible.
func (v *Viewport) EnsureVisible(maxVisible int) {
	if v.Len == 0 {
		v.Cursor = 0
		v.Offset = 0
		return
	}
	v.clamp()
	if maxVisible <= 0 {
		v.Offset = 0
		return
	}
	maxOffset := v.Len - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	if v.Cursor < v.Offset {
		v.Offset = v.Cursor
	}
	if upper := v.Offset + maxVisible - 1; v.Cursor > upper {
		v.Offset = v.Cursor - maxVisible + 1
		if v.Offset > maxOffset {
			v.Offset = maxOffset
		}
	}
}

// Center scrolls so the cursor sits in the middle of maxVisible rows.
func (v *Viewport) Center(maxVisible int) {
	if maxVisible <= 0 || v.Len == 0 {
		v.EnsureVisible(maxVisible)
		return
	}
	v.clamp()
	v.Offset = v.Cursor - maxVisible/2
	if v.Offset < 0 {
		v.Offset = 0
	}
	if maxOffset := v.Len - maxVisible; maxOffset >= 0 && v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Len <= maxVisible {
		v.Offset = 0
	}
}

// Window returns the half-open row range to draw.
func (v *Viewport) Window(maxVisible int) (int, int) {
	v.EnsureVisible(maxVisible)
	if maxVisible <= 0 {
		return 0, v.Len
	}
	end := v.Offset + maxVisible
	if end > v.Len {
		end = v.Len
	}
	return v.Offset, end
}
