package branches

import (
	"image/color"
)

// Default canvas settings.
const (
	DefaultWidth   = 800
	DefaultHeight  = 600
	DefaultPadding = 20
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	width, height int
	scheme        int
	background    color.RGBA
	fit           bool
	padding       float64
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: color.RGBA{A: 0xff},
		padding:    DefaultPadding,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithSize sets the canvas size in pixels. Non-positive values are ignored.
func WithSize(w, h int) Option {
	return func(r *renderer) {
		if w > 0 && h > 0 {
			r.width, r.height = w, h
		}
	}
}

// WithScheme selects the palette scheme.
func WithScheme(i int) Option { return func(r *renderer) { r.scheme = i } }

// WithBackground sets the fill colour. A zero alpha leaves the canvas transparent.
func WithBackground(c color.RGBA) Option { return func(r *renderer) { r.background = c } }

// WithFit scales the drawing into the canvas instead of using plane
// coordinates as pixels.
func WithFit(padding float64) Option {
	return func(r *renderer) { r.fit, r.padding = true, padding }
}

func (r renderer) transform(lines []Line) transform {
	if r.fit {
		return fit(lines, r.width, r.height, r.padding)
	}
	return transform{scale: 1}
}
