package branches

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"slices"

	"golang.org/x/image/vector"

	"github.com/matzehuels/arbor/pkg/render/palette"
)

// RenderPNG rasterizes lines into a PNG.
func RenderPNG(lines []Line, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	r.fill(img)
	r.rasterize(img, lines, r.transform(lines))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r renderer) fill(img *image.RGBA) {
	if r.background.A > 0 {
		draw.Draw(img, img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	}
}

// rasterize draws lines grouped by depth, shallow first, one rasterizer
// pass per colour.
func (r renderer) rasterize(dst *image.RGBA, lines []Line, t transform) {
	if len(lines) == 0 {
		return
	}
	byDepth := make(map[int][]Line)
	for _, l := range lines {
		byDepth[l.Depth] = append(byDepth[l.Depth], l)
	}
	depths := make([]int, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, d)
	}
	slices.Sort(depths)

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, d := range depths {
		z.Reset(b.Dx(), b.Dy())
		half := r.stroke(d, t) / 2
		for _, l := range byDepth[d] {
			x1, y1 := t.apply(l.From)
			x2, y2 := t.apply(l.To)
			quad(z, x1, y1, x2, y2, half)
		}
		src := image.NewUniform(palette.Color(r.scheme, d))
		z.Draw(dst, b, src, image.Point{})
	}
}

// quad adds a rectangle of half-width h around the segment. Corners are
// always emitted in the same winding so overlapping strokes add up.
// Zero-length segments become a square dot.
func quad(z *vector.Rasterizer, x1, y1, x2, y2, h float64) {
	dx, dy := x2-x1, y2-y1
	n := math.Hypot(dx, dy)
	if n == 0 {
		dx, dy, n = 1, 0, 1
	}
	// unit direction extended by h at both ends, and left normal
	ux, uy := dx/n*h, dy/n*h
	nx, ny := -uy, ux
	x1, y1 = x1-ux, y1-uy
	x2, y2 = x2+ux, y2+uy

	z.MoveTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x2+nx), float32(y2+ny))
	z.LineTo(float32(x2-nx), float32(y2-ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.ClosePath()
}
