package core

import "testing"

func TestRectCentered(t *testing.T) {
	outer := NewRect(0, 0, 80, 24)
	inner := outer.Centered(20, 4)

	if inner.X != 30 || inner.Y != 10 {
		t.Errorf("Centered() = %+v, expected origin (30, 10)", inner)
	}
	if inner.Right() != 50 || inner.Bottom() != 14 {
		t.Errorf("Centered() edges = (%d, %d), expected (50, 14)", inner.Right(), inner.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{0, -1, 1, 0},
		{5, -1, 1, 1},
		{-5, -1, 1, -1},
		{1, -1, 1, 1},
		{-1, -1, 1, -1},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestSign(t *testing.T) {
	for in, want := range map[int]int{-7: -1, 0: 0, 3: 1} {
		if got := Sign(in); got != want {
			t.Errorf("Sign(%d) = %d, expected %d", in, got, want)
		}
	}
}

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRight)
	f.Set(ActionNone)
	f.Set(ActionRight)
	f.Set(ActionJump)

	if len(f.Actions) != 3 {
		t.Fatalf("expected 3 recorded actions, got %v", f.Actions)
	}
	if !f.Has(ActionJump) || f.Has(ActionLeft) {
		t.Errorf("Has() mismatch for %v", f.Actions)
	}

	f.Clear()
	if len(f.Actions) != 0 || f.Has(ActionJump) {
		t.Errorf("Clear() left %v", f.Actions)
	}
}
