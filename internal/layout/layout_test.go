package layout

import (
	"maps"
	"testing"
)

func TestComputeEmpty(t *testing.T) {
	got := Compute([]int(nil), 500, Rect{W: 1000, H: 800}, 5, 5)
	if len(got) != 0 {
		t.Errorf("expected no rectangles, got %v", got)
	}
}

// TestComputeSingleWindow verifies that a lone window fills the bounds minus
// the gap and border insets, offset by the gap from the bounds origin.
func TestComputeSingleWindow(t *testing.T) {
	tests := []struct {
		name        string
		bounds      Rect
		gap, border int
		want        Rect
	}{
		{"origin bounds", Rect{W: 1000, H: 800}, 5, 5, Rect{X: 5, Y: 5, W: 980, H: 780}},
		{"offset bounds", Rect{X: 0, Y: 18, W: 1920, H: 1062}, 5, 2, Rect{X: 5, Y: 23, W: 1906, H: 1048}},
		{"no gap no border", Rect{X: 10, Y: 10, W: 300, H: 200}, 0, 0, Rect{X: 10, Y: 10, W: 300, H: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute([]string{"a"}, tt.bounds.W/2, tt.bounds, tt.gap, tt.border)
			if got["a"] != tt.want {
				t.Errorf("Compute single = %+v, want %+v", got["a"], tt.want)
			}
		})
	}
}

func TestComputeTwoWindowSplit(t *testing.T) {
	const (
		W, H = 1000, 800
		S    = 600
		g, b = 5, 5
	)
	got := Compute([]string{"w1", "w2"}, S, Rect{W: W, H: H}, g, b)

	master := got["w2"]
	if master.W != S-2*g-2*b {
		t.Errorf("master width = %d, want %d", master.W, S-2*g-2*b)
	}
	if master.X != g || master.Y != g {
		t.Errorf("master origin = (%d,%d), want (%d,%d)", master.X, master.Y, g, g)
	}

	stack := got["w1"]
	if stack.W != (W-S)-2*g-2*b {
		t.Errorf("stack width = %d, want %d", stack.W, (W-S)-2*g-2*b)
	}
	if stack.H != H-2*g-2*b {
		t.Errorf("stack height = %d, want %d", stack.H, H-2*g-2*b)
	}
	if stack.X != S+g {
		t.Errorf("stack x = %d, want %d", stack.X, S+g)
	}
}

func TestComputeStackOrder(t *testing.T) {
	got := Compute([]string{"a", "b", "c", "m"}, 400, Rect{W: 1000, H: 900}, 0, 0)

	want := map[string]Rect{
		"m": {X: 0, Y: 0, W: 400, H: 900},
		"a": {X: 400, Y: 0, W: 600, H: 300},
		"b": {X: 400, Y: 300, W: 600, H: 300},
		"c": {X: 400, Y: 600, W: 600, H: 300},
	}
	if !maps.Equal(got, want) {
		t.Errorf("Compute = %v, want %v", got, want)
	}
}

func TestComputeIdempotent(t *testing.T) {
	windows := []uint32{10, 11, 12, 13, 14}
	bounds := Rect{X: 0, Y: 18, W: 1366, H: 750}

	first := Compute(windows, 683, bounds, 5, 5)
	second := Compute(windows, 683, bounds, 5, 5)
	if !maps.Equal(first, second) {
		t.Errorf("Compute not idempotent: %v vs %v", first, second)
	}
}

func TestComputeMinimumSize(t *testing.T) {
	// Many windows in a short screen must still get a positive height.
	windows := make([]int, 50)
	for i := range windows {
		windows[i] = i
	}
	got := Compute(windows, 100, Rect{W: 200, H: 100}, 5, 5)
	for w, r := range got {
		if r.W < 1 || r.H < 1 {
			t.Errorf("window %d got degenerate rect %+v", w, r)
		}
	}
}

func TestClampSplit(t *testing.T) {
	tests := []struct {
		split, width, margin int
		want                 int
	}{
		{500, 1000, 100, 500},
		{50, 1000, 100, 100},
		{950, 1000, 100, 900},
		{-20, 1000, 100, 100},
		{300, 150, 100, 75},
	}
	for _, tt := range tests {
		if got := ClampSplit(tt.split, tt.width, tt.margin); got != tt.want {
			t.Errorf("ClampSplit(%d, %d, %d) = %d, want %d", tt.split, tt.width, tt.margin, got, tt.want)
		}
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	if got := r.Translate(5, -5); got != (Rect{X: 15, Y: 15, W: 100, H: 50}) {
		t.Errorf("Translate = %+v", got)
	}
	if got := r.Grow(-200, 10); got != (Rect{X: 10, Y: 20, W: 1, H: 60}) {
		t.Errorf("Grow = %+v", got)
	}
	if !r.Contains(10, 20) || r.Contains(110, 20) {
		t.Error("Contains reported wrong edges")
	}
	if got := Center(200, 100, Rect{W: 1000, H: 500}); got != (Rect{X: 400, Y: 200, W: 200, H: 100}) {
		t.Errorf("Center = %+v", got)
	}
}
