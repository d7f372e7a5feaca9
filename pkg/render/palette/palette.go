// Package palette maps branch depth to colour.
//
// There are 32 named schemes. Each derives its colour from
// depthFactor = min(depth*15, 200), so deeper branches fade towards a
// scheme-specific tone. Channels are clamped to [0, 255].
package palette

import (
	"fmt"
	"image/color"
	"strings"
)

type rgbFunc func(d int) (r, g, b int)

// Scheme is a named depth-to-colour mapping.
type Scheme struct {
	Name string
	rgb  rgbFunc
}

var schemes = []Scheme{
	{"green", func(d int) (int, int, int) { return 0, 255 - d, 0 }},
	{"autumn", func(d int) (int, int, int) { return 255 - d, 100 + d/2, 0 }},
	{"winter", func(d int) (int, int, int) { return 200 - d, 200 - d, 255 - d }},
	{"spring", func(d int) (int, int, int) { return 255 - d, 100 + d/2, 200 - d }},
	{"summer", func(d int) (int, int, int) { return 255 - d, 255 - d/2, 0 }},
	{"fire", func(d int) (int, int, int) { return 255, 100 + d/2, 0 }},
	{"ocean", func(d int) (int, int, int) { return 0, 150 + d/2, 255 - d }},
	{"sunset", func(d int) (int, int, int) { return 255 - d, 50 + d/2, 150 + d/2 }},
	{"forest", func(d int) (int, int, int) { return 0, 150 - d/2, 0 }},
	{"desert", func(d int) (int, int, int) { return 200 - d/2, 150 - d/3, 50 }},
	{"arctic", func(d int) (int, int, int) { return 180 - d, 200 - d, 255 - d/2 }},
	{"tropical", func(d int) (int, int, int) { return 255 - d, 100 + d, 0 }},
	{"mountain", func(d int) (int, int, int) { return 150 - d, 150 - d, 160 - d }},
	{"sunrise", func(d int) (int, int, int) { return 255 - d/2, 200 - d/2, 0 }},
	{"midnight", func(d int) (int, int, int) { return 50 + d/2, 0, 100 + d/2 }},
	{"lavender", func(d int) (int, int, int) { return 200 - d, 150 - d/2, 255 - d }},
	{"coral", func(d int) (int, int, int) { return 255 - d, 100 - d/2, 100 - d/2 }},
	{"emerald", func(d int) (int, int, int) { return 0, 200 - d/2, 100 - d/3 }},
	{"amber", func(d int) (int, int, int) { return 255 - d/2, 200 - d/2, 0 }},
	{"crimson", func(d int) (int, int, int) { return 200 - d/2, 0, 0 }},
	{"azure", func(d int) (int, int, int) { return 0, 150 - d/2, 255 - d }},
	{"violet", func(d int) (int, int, int) { return 150 - d/2, 0, 200 - d/2 }},
	{"copper", func(d int) (int, int, int) { return 200 - d/2, 100 - d/3, 50 }},
	{"silver", func(d int) (int, int, int) { return 180 - d, 180 - d, 180 - d }},
	{"gold", func(d int) (int, int, int) { return 255 - d/2, 215 - d/2, 0 }},
	{"rose", func(d int) (int, int, int) { return 255 - d, 100 - d/2, 150 - d/2 }},
	{"teal", func(d int) (int, int, int) { return 0, 150 - d/2, 150 - d/2 }},
	{"maroon", func(d int) (int, int, int) { return 150 - d/2, 0, 0 }},
	{"navy", func(d int) (int, int, int) { return 0, 0, 150 - d/2 }},
	{"lime", func(d int) (int, int, int) { return 150 - d/2, 255 - d, 0 }},
	{"magenta", func(d int) (int, int, int) { return 255 - d, 0, 255 - d }},
	{"cyan", func(d int) (int, int, int) { return 0, 255 - d, 255 - d }},
}

// Len is the number of schemes.
func Len() int { return len(schemes) }

// Names lists the scheme names in cycling order.
func Names() []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.Name
	}
	return out
}

// Index normalizes i into [0, Len()), wrapping negatives.
func Index(i int) int {
	n := len(schemes)
	return ((i % n) + n) % n
}

// Next returns the index after i, wrapping at the end.
func Next(i int) int { return Index(i + 1) }

// Name returns the name of scheme i (wrapped).
func Name(i int) string { return schemes[Index(i)].Name }

// Lookup finds a scheme index by case-insensitive name.
func Lookup(name string) (int, error) {
	for i, s := range schemes {
		if strings.EqualFold(s.Name, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown colour scheme %q", name)
}

// DepthFactor is min(depth*15, 200).
func DepthFactor(depth int) int {
	return min(depth*15, 200)
}

// Color returns the colour of a branch at depth in scheme i (wrapped).
func Color(i, depth int) color.RGBA {
	r, g, b := schemes[Index(i)].rgb(DepthFactor(depth))
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 0xff}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb or #rrggbbaa. The alpha defaults to opaque.
func ParseHex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("want #rrggbb or #rrggbbaa")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// Thickness is the stroke width of a branch at depth: max(1, 8-depth).
func Thickness(depth int) int {
	return max(1, 8-depth)
}

func clamp(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}
