// Package bar draws the status bar: workspace tags on the left, system
// stats on the right.
package bar

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strconv"

	"github.com/dodorz/xroagwem/internal/app"
	"github.com/dodorz/xroagwem/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Snapshot is everything the bar shows.
type Snapshot struct {
	Tags     []string
	Active   int
	Occupied []bool
	Stats    Stats
	// ShowStats enables the right-hand stats text.
	ShowStats bool
}

// SnapshotOf captures the workspace state of m.
func SnapshotOf(m *app.WM, stats Stats, showStats bool) Snapshot {
	return Snapshot{
		Tags:      m.Tags(),
		Active:    m.Active.Workspace,
		Occupied:  m.Occupied(),
		Stats:     stats,
		ShowStats: showStats,
	}
}

// TagAt returns the index of the tag drawn at x, or -1.
func (r *Renderer) TagAt(s Snapshot, x int) int {
	for i, c := range r.Cells(s) {
		if x >= c.X && x < c.X+c.W {
			return i
		}
	}
	return -1
}

// Renderer draws bar images. It is not safe for concurrent use because
// TrueType faces are not.
type Renderer struct {
	face    font.Face
	palette theme.Palette
	height  int
	pad     int
}

// NewRenderer returns a renderer for a bar of the given height. An empty
// fontPath selects the built-in 7x13 bitmap font.
func NewRenderer(height int, fontPath string, size float64, palette theme.Palette) (*Renderer, error) {
	face := font.Face(basicfont.Face7x13)
	if fontPath != "" {
		f, err := loadFace(fontPath, size)
		if err != nil {
			return nil, err
		}
		face = f
	}
	return &Renderer{
		face:    face,
		palette: palette,
		height:  max(height, 1),
		pad:     max(height/3, 2),
	}, nil
}

func loadFace(path string, size float64) (font.Face, error) {
	// #nosec G304 - path is the user's configured font
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bar font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bar font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bar font face: %w", err)
	}
	return face, nil
}

// SetPalette changes the colors of later renders.
func (r *Renderer) SetPalette(p theme.Palette) {
	r.palette = p
}

// Height returns the bar height in pixels.
func (r *Renderer) Height() int {
	return r.height
}

// Label returns the text drawn for tag i: the tag itself, or its one-based
// index when the font cannot draw every rune of it.
func (r *Renderer) Label(i int, tag string) string {
	if tag == "" {
		return strconv.Itoa(i + 1)
	}
	for _, c := range tag {
		if _, ok := r.face.GlyphAdvance(c); !ok {
			return strconv.Itoa(i + 1)
		}
	}
	return tag
}

// TagCell is the horizontal extent of one tag.
type TagCell struct {
	X, W int
}

// Cells returns where each tag of s is drawn.
func (r *Renderer) Cells(s Snapshot) []TagCell {
	cells := make([]TagCell, len(s.Tags))
	x := 0
	for i, tag := range s.Tags {
		w := font.MeasureString(r.face, r.Label(i, tag)).Ceil() + 2*r.pad
		cells[i] = TagCell{X: x, W: w}
		x += w
	}
	return cells
}

// Render draws s into a new width x Height image.
func (r *Renderer) Render(width int, s Snapshot) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), r.height))
	fill(img, img.Bounds(), r.palette.BarBackground)

	baseline := r.baseline()
	for i, cell := range r.Cells(s) {
		fg := r.palette.BarForeground
		if i == s.Active {
			fill(img, image.Rect(cell.X, 0, cell.X+cell.W, r.height), r.palette.BarAccent)
		}
		if i < len(s.Occupied) && s.Occupied[i] {
			// dwm's occupied marker: a small square in the top-left corner.
			sq := max(r.height/6, 2)
			fill(img, image.Rect(cell.X+1, 1, cell.X+1+sq, 1+sq), fg)
		}
		r.drawString(img, r.Label(i, s.Tags[i]), cell.X+r.pad, baseline, fg)
	}

	if s.ShowStats {
		text := s.Stats.String()
		w := font.MeasureString(r.face, text).Ceil()
		r.drawString(img, text, width-w-r.pad, baseline, r.palette.BarForeground)
	}
	return img
}

// baseline centers the font's ascent and descent vertically.
func (r *Renderer) baseline() int {
	m := r.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	return (r.height-ascent-descent)/2 + ascent
}

func (r *Renderer) drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fill(img *image.RGBA, rect image.Rectangle, c color.Color) {
	if c == nil {
		c = color.Black
	}
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}
