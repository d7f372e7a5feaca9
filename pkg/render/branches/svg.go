package branches

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/arbor/pkg/render/palette"
)

// RenderSVG draws lines as an SVG document.
func RenderSVG(lines []Line, opts ...Option) []byte {
	r := newRenderer(opts...)
	t := r.transform(lines)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.background.A > 0 {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", palette.Hex(r.background))
	}
	buf.WriteString(`  <g stroke-linecap="round" fill="none">` + "\n")
	for _, l := range lines {
		x1, y1 := t.apply(l.From)
		x2, y2 := t.apply(l.To)
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"/>`+"\n",
			x1, y1, x2, y2, palette.Hex(palette.Color(r.scheme, l.Depth)), r.stroke(l.Depth, t))
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// stroke keeps widths readable when fitting shrinks the drawing.
func (r renderer) stroke(depth int, t transform) float64 {
	w := float64(palette.Thickness(depth))
	if t.scale < 1 {
		w = max(w*t.scale, 1)
	}
	return w
}
