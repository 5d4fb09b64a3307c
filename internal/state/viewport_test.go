package state

import "testing"

func TestMoveHome(t *testing.T) {
	v := &Viewport{Len: 3, Cursor: 2}
	if !v.MoveHome() {
		t.Fatalf("expected move when rows exist")
	}
	if v.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", v.Cursor)
	}

	empty := &Viewport{Cursor: 5}
	if empty.MoveHome() {
		t.Fatalf("expected no movement for empty viewport")
	}
	if empty.Cursor != 0 {
		t.Fatalf("expected cursor reset to 0, got %d", empty.Cursor)
	}
}

func TestMoveEnd(t *testing.T) {
	v := &Viewport{Len: 3}
	if !v.MoveEnd() || v.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", v.Cursor)
	}
	if v.MoveEnd() {
		t.Fatalf("second MoveEnd should report no movement")
	}
}

func TestPageMovesClamp(t *testing.T) {
	v := &Viewport{Len: 10}
	v.PageDown(4)
	if v.Cursor != 4 {
		t.Fatalf("expected cursor 4, got %d", v.Cursor)
	}
	v.PageDown(8)
	if v.Cursor != 9 {
		t.Fatalf("expected clamp to 9, got %d", v.Cursor)
	}
	v.PageUp(100)
	if v.Cursor != 0 {
		t.Fatalf("expected clamp to 0, got %d", v.Cursor)
	}
}

func TestEnsureVisible(t *testing.T) {
	v := &Viewport{Len: 20, Cursor: 15}
	v.EnsureVisible(5)
	if v.Offset != 11 {
		t.Fatalf("expected offset 11, got %d", v.Offset)
	}
	v.Cursor = 3
	v.EnsureVisible(5)
	if v.Offset != 3 {
		t.Fatalf("expected offset 3, got %d", v.Offset)
	}
	start, end := v.Window(5)
	if start != 3 || end != 8 {
		t.Fatalf("window = [%d,%d)", start, end)
	}
}

func TestCenter(t *testing.T) {
	v := &Viewport{Len: 100, Cursor: 50}
	v.Center(10)
	if v.Offset != 45 {
		t.Fatalf("expected offset 45, got %d", v.Offset)
	}
	v.Cursor = 98
	v.Center(10)
	if v.Offset != 90 {
		t.Fatalf("expected offset clamped to 90, got %d", v.Offset)
	}
	short := &Viewport{Len: 4, Cursor: 3}
	short.Center(10)
	if short.Offset != 0 {
		t.Fatalf("short content should not scroll, got %d", short.Offset)
	}
}

func TestSetLenClampsCursor(t *testing.T) {
	v := &Viewport{Len: 10, Cursor: 9}
	v.SetLen(4)
	if v.Cursor != 3 {
		t.Fatalf("expected cursor 3, got %d", v.Cursor)
	}
}
