package layout

// Unbounded marks a band without an upper limit.
const Unbounded = -1

// Band maps the closed node-count range [Min, Max] to base parameters.
type Band struct {
	Min, Max    int
	BaseLength  float64
	BaseSpacing float64
}

// Contains reports whether n falls in the band.
func (b Band) Contains(n int) bool {
	return n >= b.Min && (b.Max == Unbounded || n <= b.Max)
}

// Bands is an ordered set of disjoint scale bands.
type Bands []Band

// DefaultBands keeps layouts proportionate as trees grow.
var DefaultBands = Bands{
	{Min: 0, Max: 10, BaseLength: 100, BaseSpacing: 60},
	{Min: 11, Max: 30, BaseLength: 120, BaseSpacing: 80},
	{Min: 31, Max: 60, BaseLength: 150, BaseSpacing: 100},
	{Min: 61, Max: Unbounded, BaseLength: 180, BaseSpacing: 120},
}

// Select returns (base length, base spacing) for a tree of n nodes.
//
// The first band containing n wins. Counts outside every band (negative
// counts included) fall back to the unbounded band, or to the last band
// when none is unbounded.
//
// The spacing is part of the contract but the static placement does not
// consume it.
func (bs Bands) Select(n int) (length, spacing float64) {
	if len(bs) == 0 {
		bs = DefaultBands
	}
	for _, b := range bs {
		if b.Contains(n) {
			return b.BaseLength, b.BaseSpacing
		}
	}
	top := bs[len(bs)-1]
	for _, b := range bs {
		if b.Max == Unbounded {
			top = b
			break
		}
	}
	return top.BaseLength, top.BaseSpacing
}
