package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"branches", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	var o Options
	o.SetLayoutDefaults()
	if math.Abs(o.BranchAngleDeg-35) > 1e-9 || o.BranchFactor != 0.85 || o.MinBranchLength != 30 {
		t.Errorf("defaults = %s", o.String())
	}
	if o.MaxDepth != 10000 || o.Seed != DefaultSeed || o.Origin() != (graph.Position{X: 600, Y: 650}) {
		t.Errorf("defaults = %+v", o)
	}

	// A zero angle is kept when the block is set.
	o = Options{BranchFactor: 0.9, MinBranchLength: 10}
	o.SetLayoutDefaults()
	if o.BranchAngleDeg != 0 {
		t.Errorf("BranchAngleDeg = %v, want 0", o.BranchAngleDeg)
	}
}

func TestValidateForRender(t *testing.T) {
	o := Options{VizType: VizNodelink, Formats: []string{"svg", "png"}}
	if err := o.ValidateForRender(); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("nodelink png = %v, want UNSUPPORTED", err)
	}

	o = Options{}
	if err := o.ValidateForRender(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if o.VizType != VizBranches || len(o.Formats) != 1 || o.Formats[0] != FormatSVG {
		t.Errorf("render defaults = %+v", o)
	}
}

func TestValidateForLayout(t *testing.T) {
	o := Options{BranchFactor: 1.2, MinBranchLength: 0, BranchAngleDeg: 10, MaxDepth: 5}
	if err := o.ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("non-terminating params = %v, want INVALID_CONFIG", err)
	}
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		format    string
		wantIDs   []string
		wantEdges int
		wantErr   bool
	}{
		{
			name:      "Canonical",
			input:     `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"}]}`,
			wantIDs:   []string{"a", "b"},
			wantEdges: 1,
		},
		{
			name: "LinksKeepsKeyOrder",
			input: `{"nodes":{"CEO":{"name":"Chief"},"CTO":{},"Dev":{}},
				"links":[{"from":"CEO","to":"CTO"},{"from":"CTO","to":"Dev"}]}`,
			wantIDs:   []string{"CEO", "CTO", "Dev"},
			wantEdges: 2,
		},
		{
			name:      "EdgeList",
			input:     "# org chart\nroot a\nroot -> b\n\nlonely\n",
			wantIDs:   []string{"root", "a", "b", "lonely"},
			wantEdges: 2,
		},
		{
			name:    "EdgeListTooManyFields",
			input:   "a b c\n",
			wantErr: true,
		},
		{
			name:    "UnknownFormat",
			input:   "a b",
			format:  "yaml",
			wantErr: true,
		},
		{
			name:    "MalformedJSON",
			input:   `{"nodes":[`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseInput([]byte(tt.input), tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInput: %v", err)
			}
			if diff := cmp.Diff(tt.wantIDs, g.IDs()); diff != "" {
				t.Errorf("IDs mismatch (-want +got):\n%s", diff)
			}
			if len(g.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(g.Edges), tt.wantEdges)
			}
		})
	}
}

func TestParseInputLinksLabel(t *testing.T) {
	g, err := ParseInput([]byte(`{"nodes":{"CEO":{"name":"Chief"}},"links":[]}`), "")
	if err != nil {
		t.Fatal(err)
	}
	if g.Label("CEO") != "Chief" {
		t.Errorf("Label = %q, want Chief", g.Label("CEO"))
	}
}

func orgChart() graph.Graph {
	g, _ := ParseInput([]byte(`CEO CTO
CEO CFO
CTO Dev1
CTO Dev2
CTO QA
CFO Acc1
CFO Acc2
`), InputEdges)
	return g
}

func TestGenerateLayoutDeterministic(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatal(err)
	}
	a, err := GenerateLayout(orgChart(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenerateLayout(orgChart(), opts)
	if diff := cmp.Diff(a.Positions, b.Positions); diff != "" {
		t.Errorf("same seed should give same positions (-a +b):\n%s", diff)
	}
	if a.Root != "CEO" || len(a.Positions) != 8 {
		t.Errorf("root=%s placed=%d", a.Root, len(a.Positions))
	}
	if a.BaseLength != 100 {
		t.Errorf("BaseLength = %v, want 100 for 8 nodes", a.BaseLength)
	}

	opts.Seed = 7
	c, _ := GenerateLayout(orgChart(), opts)
	if cmp.Equal(a.Positions, c.Positions) {
		t.Error("different seeds should give different positions")
	}
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Formats: []string{FormatJSON, FormatSVG, FormatPNG, FormatDOT}, Width: 200, Height: 200}
	first, err := r.Execute(ctx, orgChart(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.GraphHash == "" || first.Stats.Placed != 8 {
		t.Errorf("result = %+v", first.Stats)
	}

	second, err := r.Execute(ctx, orgChart(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, orgChart(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh should bypass the layout cache")
	}

	var l graph.Layout
	if err := json.Unmarshal(first.Artifacts[FormatJSON], &l); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if l.Root != "CEO" {
		t.Errorf("json root = %q", l.Root)
	}
	if !strings.Contains(string(first.Artifacts[FormatDOT]), `"CEO" -> "CTO";`) {
		t.Error("dot artifact missing edge")
	}
	if !bytes.HasPrefix(first.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact missing signature")
	}
	if !bytes.Contains(first.Artifacts[FormatSVG], []byte("<line")) {
		t.Error("svg artifact has no lines")
	}
}

func TestRunnerRejectsLargeGraph(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.ComputeLayout(context.Background(), orgChart(), Options{MaxNodes: 3})
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("err = %v, want INVALID_GRAPH", err)
	}
}

func TestRunnerEmptyGraph(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), graph.Graph{}, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Layout.Positions) != 0 {
		t.Errorf("positions = %d, want 0", len(res.Layout.Positions))
	}
}

func TestSimulateInstant(t *testing.T) {
	res, err := Simulate(context.Background(), SimulationOptions{Instant: true, Formats: []string{FormatSVG, FormatJSON}})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if !res.Forest.Stats.Complete {
		t.Error("instant run should complete")
	}
	if res.Forest.Mode != "instant" {
		t.Errorf("mode = %s", res.Forest.Mode)
	}
	if len(res.Forest.Segments) != res.Forest.Stats.Branches {
		t.Error("segment count should match branch count")
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<line")) {
		t.Error("svg has no lines")
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact is not valid JSON")
	}
}

func TestSimulateMaxTicksAndFrames(t *testing.T) {
	var ticks []int
	res, err := Simulate(context.Background(), SimulationOptions{
		MaxTicks:   10,
		FrameEvery: 5,
		Width:      100,
		Height:     150,
		OnFrame: func(tick int, img *image.RGBA) error {
			ticks = append(ticks, tick)
			if img.Bounds().Dx() != 100 {
				t.Errorf("frame width = %d", img.Bounds().Dx())
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if res.Forest.Stats.Ticks != 10 {
		t.Errorf("ticks = %d, want 10", res.Forest.Stats.Ticks)
	}
	if diff := cmp.Diff([]int{5, 10, 10}, ticks); diff != "" {
		t.Errorf("frame ticks (-want +got):\n%s", diff)
	}
	if res.Frames != 3 {
		t.Errorf("Frames = %d, want 3", res.Frames)
	}
	seg := res.Forest.Segments[0]
	if seg.Start != (graph.Position{X: 50, Y: 100}) {
		t.Errorf("trunk start = %+v", seg.Start)
	}
}

func TestSimulateProgress(t *testing.T) {
	var ticks []int
	_, err := Simulate(context.Background(), SimulationOptions{
		MaxTicks: 2*ProgressEvery + 10,
		OnProgress: func(st growth.Stats) {
			ticks = append(ticks, st.Ticks)
			if st.Branches == 0 {
				t.Error("progress reported an empty forest")
			}
		},
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if diff := cmp.Diff([]int{ProgressEvery, 2 * ProgressEvery}, ticks); diff != "" {
		t.Errorf("progress ticks (-want +got):\n%s", diff)
	}
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Simulate(ctx, SimulationOptions{}); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSimulationOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts SimulationOptions
		code errors.Code
	}{
		{"DotUnsupported", SimulationOptions{Formats: []string{"dot"}}, errors.ErrCodeUnsupported},
		{"BadMode", SimulationOptions{Mode: "turbo"}, errors.ErrCodeInvalidInput},
		{"NegativeSize", SimulationOptions{Width: -1}, errors.ErrCodeInvalidInput},
		{"BadBackground", SimulationOptions{Background: "black"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimulation(tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
