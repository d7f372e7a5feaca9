package layout

import "testing"

func TestBandsSelect(t *testing.T) {
	tests := []struct {
		n           int
		wantLength  float64
		wantSpacing float64
	}{
		{0, 100, 60},
		{4, 100, 60},
		{10, 100, 60},
		{11, 120, 80},
		{30, 120, 80},
		{31, 150, 100},
		{60, 150, 100},
		{61, 180, 120},
		{1_000_000, 180, 120},
		{-1, 180, 120},
	}

	for _, tt := range tests {
		length, spacing := DefaultBands.Select(tt.n)
		if length != tt.wantLength || spacing != tt.wantSpacing {
			t.Errorf("Select(%d) = (%v, %v), want (%v, %v)", tt.n, length, spacing, tt.wantLength, tt.wantSpacing)
		}
	}
}

func TestBandsSelectFallbacks(t *testing.T) {
	var empty Bands
	if l, _ := empty.Select(4); l != 100 {
		t.Errorf("empty bands should use defaults, got length %v", l)
	}

	bounded := Bands{
		{Min: 0, Max: 5, BaseLength: 10, BaseSpacing: 1},
		{Min: 6, Max: 9, BaseLength: 20, BaseSpacing: 2},
	}
	if l, s := bounded.Select(50); l != 20 || s != 2 {
		t.Errorf("out-of-range count should fall back to last band, got (%v, %v)", l, s)
	}
}
