package bar

import (
	"context"
	"errors"
	"image/color"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dodorz/xroagwem/internal/app/apptest"
	"github.com/dodorz/xroagwem/internal/theme"
)

var testPalette = theme.Palette{
	BorderNormal:  color.RGBA{0x44, 0x44, 0x44, 0xff},
	BorderFocused: color.RGBA{0x00, 0x55, 0x77, 0xff},
	BarBackground: color.RGBA{0x22, 0x22, 0x22, 0xff},
	BarForeground: color.RGBA{0xee, 0xee, 0xee, 0xff},
	BarAccent:     color.RGBA{0x00, 0x55, 0x77, 0xff},
}

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(20, "", 0, testPalette)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// =============================================================================
// Rendering
// =============================================================================

func TestRenderSizeAndColors(t *testing.T) {
	r := newRenderer(t)
	s := Snapshot{
		Tags:     []string{"www", "dev", "chat"},
		Active:   1,
		Occupied: []bool{true, false, false},
	}
	img := r.Render(400, s)

	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 20 {
		t.Fatalf("bounds = %v, want 400x20", b)
	}
	if c := img.At(399, 19); !sameColor(c, testPalette.BarBackground) {
		t.Errorf("background = %v, want %v", c, testPalette.BarBackground)
	}

	cells := r.Cells(s)
	active := cells[1]
	if c := img.At(active.X+active.W-1, 19); !sameColor(c, testPalette.BarAccent) {
		t.Errorf("active tag background = %v, want accent", c)
	}
	if c := img.At(cells[0].X+1, 1); !sameColor(c, testPalette.BarForeground) {
		t.Errorf("occupied marker = %v, want foreground", c)
	}
	if c := img.At(cells[2].X+1, 1); !sameColor(c, testPalette.BarBackground) {
		t.Errorf("empty tag has a marker: %v", c)
	}
}

func TestCellsAreContiguous(t *testing.T) {
	r := newRenderer(t)
	s := Snapshot{Tags: []string{"1", "22", "333"}}
	cells := r.Cells(s)
	x := 0
	for i, c := range cells {
		if c.X != x {
			t.Errorf("cell %d starts at %d, want %d", i, c.X, x)
		}
		if c.W <= 0 {
			t.Errorf("cell %d has width %d", i, c.W)
		}
		x += c.W
	}
	if cells[2].W <= cells[0].W {
		t.Error("longer labels should get wider cells")
	}
	if got := r.TagAt(s, cells[1].X); got != 1 {
		t.Errorf("TagAt = %d, want 1", got)
	}
	if got := r.TagAt(s, x+10); got != -1 {
		t.Errorf("TagAt past the last tag = %d, want -1", got)
	}
}

func TestLabelFallback(t *testing.T) {
	r := newRenderer(t)
	tests := []struct {
		name  string
		index int
		tag   string
		want  string
	}{
		{"ascii", 0, "www", "www"},
		{"missing glyph", 2, "日本", "3"},
		{"mixed", 4, "a日", "5"},
		{"empty", 1, "", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Label(tt.index, tt.tag); got != tt.want {
				t.Errorf("Label(%d, %q) = %q, want %q", tt.index, tt.tag, got, tt.want)
			}
		})
	}
}

func TestMissingFontFails(t *testing.T) {
	if _, err := NewRenderer(20, "/nonexistent/font.ttf", 12, testPalette); err == nil {
		t.Error("expected an error for a missing font")
	}
}

func TestSnapshotOf(t *testing.T) {
	m, s := apptest.NewWM()
	apptest.Manage(m, s, 1)
	m.SwitchWorkspace(2)

	snap := SnapshotOf(m, Stats{CPU: 12}, true)
	if snap.Active != 2 {
		t.Errorf("active = %d, want 2", snap.Active)
	}
	if len(snap.Tags) != 4 || !snap.Occupied[0] || snap.Occupied[2] {
		t.Errorf("snapshot = %+v", snap)
	}
}

// =============================================================================
// Stats
// =============================================================================

func TestStatsString(t *testing.T) {
	s := Stats{CPU: 12.4, Memory: 55.6}
	if got, want := s.String(), "12% CPU  56% MEM"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

type countingSampler struct {
	calls atomic.Int32
	err   error
}

func (c *countingSampler) Sample(context.Context) (Stats, error) {
	n := c.calls.Add(1)
	return Stats{CPU: float64(n)}, c.err
}

func TestTickerNeverBlocks(t *testing.T) {
	sampler := &countingSampler{}
	tk := NewTicker(sampler, time.Millisecond, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tk.Run(ctx)
		close(done)
	}()

	// Nobody reads redraw requests while several samples are taken.
	for sampler.calls.Load() < 5 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run blocked on an unread redraw request")
	}

	if n := len(tk.Redraw()); n != 1 {
		t.Errorf("%d pending requests, want 1", n)
	}
}

func TestTickerRequestsOnError(t *testing.T) {
	sampler := &countingSampler{err: errors.New("boom")}
	tk := NewTicker(sampler, time.Hour, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tk.Run(ctx)

	select {
	case <-tk.Redraw():
	case <-time.After(5 * time.Second):
		t.Fatal("no redraw after the first sample")
	}
}
