// Package layout computes window rectangles for the master/stack tiling
// layout. Everything in this package is pure: the same inputs always yield
// the same rectangles.
package layout

// Rect is a rectangle in root window coordinates.
type Rect struct {
	X, Y int
	W, H int
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Grow returns r with its size changed by (dw, dh). The size never drops
// below one pixel.
func (r Rect) Grow(dw, dh int) Rect {
	r.W = max(r.W+dw, 1)
	r.H = max(r.H+dh, 1)
	return r
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Inset shrinks r by gap and border on every side, keeping the size at
// least one pixel.
func (r Rect) Inset(gap, border int) Rect {
	return Rect{
		X: r.X + gap,
		Y: r.Y + gap,
		W: max(r.W-2*gap-2*border, 1),
		H: max(r.H-2*gap-2*border, 1),
	}
}

// Compute lays out the tiled windows of a workspace.
//
// The last element of tiled is the master and occupies the region from the
// left edge of bounds to split. The remaining windows share the region from
// split to the right edge, stacked top to bottom in list order with equal
// heights. split is an offset from bounds.X.
func Compute[H comparable](tiled []H, split int, bounds Rect, gap, border int) map[H]Rect {
	n := len(tiled)
	out := make(map[H]Rect, n)
	switch n {
	case 0:
		return out
	case 1:
		out[tiled[0]] = bounds.Inset(gap, border)
		return out
	}

	master := Rect{X: bounds.X, Y: bounds.Y, W: split, H: bounds.H}
	out[tiled[n-1]] = master.Inset(gap, border)

	cellH := bounds.H / (n - 1)
	for i, w := range tiled[:n-1] {
		cell := Rect{
			X: bounds.X + split,
			Y: bounds.Y + i*cellH,
			W: bounds.W - split,
			H: cellH,
		}
		out[w] = cell.Inset(gap, border)
	}
	return out
}

// ClampSplit limits split to [margin, width-margin]. When the range is
// empty the midpoint of width is returned.
func ClampSplit(split, width, margin int) int {
	lo, hi := margin, width-margin
	if lo > hi {
		return width / 2
	}
	return min(max(split, lo), hi)
}

// Center returns a w x h rectangle centered in bounds.
func Center(w, h int, bounds Rect) Rect {
	w = max(min(w, bounds.W), 1)
	h = max(min(h, bounds.H), 1)
	return Rect{
		X: bounds.X + (bounds.W-w)/2,
		Y: bounds.Y + (bounds.H-h)/2,
		W: w,
		H: h,
	}
}
