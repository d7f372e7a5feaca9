package branches

import (
	"image"
	"image/draw"
)

// Canvas renders successive frames of a growing forest.
//
// Static lines are rasterized into a cached layer that is rebuilt only when
// the number of static lines or the scheme changes; every frame copies the
// layer and draws the remaining lines on top.
type Canvas struct {
	r      renderer
	layer  *image.RGBA
	static int
	scheme int
	frame  *image.RGBA
}

// NewCanvas creates a canvas. Fitting is ignored: frames use plane
// coordinates as pixels so the cached layer stays aligned.
func NewCanvas(opts ...Option) *Canvas {
	r := newRenderer(opts...)
	r.fit = false
	rect := image.Rect(0, 0, r.width, r.height)
	return &Canvas{
		r:      r,
		static: -1,
		frame:  image.NewRGBA(rect),
		layer:  image.NewRGBA(rect),
	}
}

// SetScheme switches the palette; the static layer is redrawn on the next frame.
func (c *Canvas) SetScheme(i int) {
	c.r.scheme = i
}

// Invalidate drops the cached layer.
func (c *Canvas) Invalidate() {
	c.static = -1
}

// Frame draws lines and returns the canvas image. The image is reused by
// the next call.
func (c *Canvas) Frame(lines []Line) *image.RGBA {
	var static, live []Line
	for _, l := range lines {
		if l.Static {
			static = append(static, l)
		} else {
			live = append(live, l)
		}
	}

	t := transform{scale: 1}
	if len(static) != c.static || c.r.scheme != c.scheme {
		clear(c.layer.Pix)
		c.r.fill(c.layer)
		c.r.rasterize(c.layer, static, t)
		c.static, c.scheme = len(static), c.r.scheme
	}

	draw.Draw(c.frame, c.frame.Bounds(), c.layer, image.Point{}, draw.Src)
	c.r.rasterize(c.frame, live, t)
	return c.frame
}

// Cached reports how many static lines the cached layer holds,
// or -1 when it is invalid.
func (c *Canvas) Cached() int {
	return c.static
}
