package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/arbor/pkg/core/growth"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/render/palette"
)

// Status line styles.
var (
	modeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSky)
	keysStyle = lipgloss.NewStyle().Foreground(colorMoss)
)

// =============================================================================
// growModel - Interactive growth view
// =============================================================================

type tickMsg time.Time

// growModel is the bubbletea model driving a simulation from the tick clock.
// The forest is drawn on a character grid scaled from the canvas size.
type growModel struct {
	sim      *growth.Simulation
	seed     growth.Seed
	width    float64
	height   float64
	scheme   int
	interval time.Duration
	cols     int
	rows     int
}

// newGrowModel plants the first tree for opts.
func newGrowModel(opts pipeline.SimulationOptions, interval time.Duration) (growModel, error) {
	sim, err := pipeline.NewSimulation(opts)
	if err != nil {
		return growModel{}, err
	}
	if opts.Instant {
		sim.InstantGrow()
	}
	w, h := float64(opts.Width), float64(opts.Height)
	return growModel{
		sim:      sim,
		seed:     growth.SeedFor(w, h),
		width:    w,
		height:   h,
		scheme:   palette.Index(opts.Scheme),
		interval: interval,
		cols:     80,
		rows:     21,
	}, nil
}

func (m growModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m growModel) Init() tea.Cmd {
	return m.tick()
}

func (m growModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.sim.Running() {
			m.sim.Tick()
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n":
			m.sim.Restart(m.seed, growth.ModeNormal)
		case "f":
			m.sim.Restart(m.seed, growth.ModeFast)
		case "i":
			m.sim.Restart(m.seed, growth.ModeNormal)
			m.sim.InstantGrow()
		case "c":
			m.scheme = palette.Next(m.scheme)
		case " ", "space":
			if m.sim.Mode() == growth.ModeFast && len(m.sim.Roots()) > 0 {
				m.scheme = palette.Next(m.scheme)
			}
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 1)
		m.rows = max(msg.Height-3, 1)
	}
	return m, nil
}

func (m growModel) View() string {
	var b strings.Builder

	cells := rasterCells(m.sim.Segments(), m.width, m.height, m.cols, m.rows)
	for _, row := range cells {
		b.WriteString(renderRow(row, m.scheme))
		b.WriteString("\n")
	}

	st := m.sim.Stats()
	b.WriteString(modeStyle.Render(st.Mode.String()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · tick %d · %d branches · %d ends · ",
		palette.Name(m.scheme), st.Ticks, st.Branches, st.LeafEnds)))
	b.WriteString(stateStyle(st).Render(stateLabel(st)))
	b.WriteString("\n")
	b.WriteString(keysStyle.Render("n new  f fast  i instant  c colour  q quit"))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// rasterCells samples every segment from start to tip onto a cols×rows grid
// covering a width×height canvas. Each cell holds the smallest depth drawn
// into it, or 0 when empty.
func rasterCells(segs []growth.Segment, width, height float64, cols, rows int) [][]int {
	cells := make([][]int, max(rows, 0))
	for i := range cells {
		cells[i] = make([]int, max(cols, 0))
	}
	if cols <= 0 || rows <= 0 || width <= 0 || height <= 0 {
		return cells
	}

	sx, sy := float64(cols)/width, float64(rows)/height
	plot := func(x, y float64, depth int) {
		if x < 0 || y < 0 {
			return
		}
		cx, cy := int(x*sx), int(y*sy)
		if cx >= cols || cy >= rows {
			return
		}
		if cur := cells[cy][cx]; cur == 0 || depth < cur {
			cells[cy][cx] = depth
		}
	}

	for _, s := range segs {
		dx, dy := s.Tip.X-s.Start.X, s.Tip.Y-s.Start.Y
		steps := max(int(math.Ceil(2*math.Max(math.Abs(dx*sx), math.Abs(dy*sy)))), 1)
		for k := 0; k <= steps; k++ {
			t := float64(k) / float64(steps)
			plot(s.Start.X+t*dx, s.Start.Y+t*dy, s.Depth)
		}
	}
	return cells
}

// renderRow colours runs of equal depth in one style call each.
func renderRow(row []int, scheme int) string {
	var b strings.Builder
	for i := 0; i < len(row); {
		j := i
		for j < len(row) && row[j] == row[i] {
			j++
		}
		run := strings.Repeat(glyph(row[i]), j-i)
		if row[i] == 0 {
			b.WriteString(run)
		} else {
			c := palette.Hex(palette.Color(scheme, row[i]))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(run))
		}
		i = j
	}
	return b.String()
}

func stateStyle(st growth.Stats) lipgloss.Style {
	switch {
	case st.Complete:
		return StyleSuccess
	case st.Paused:
		return StyleWarning
	default:
		return StyleDim
	}
}

// glyph picks a block character from the stroke thickness at depth.
func glyph(depth int) string {
	if depth == 0 {
		return " "
	}
	switch t := palette.Thickness(depth); {
	case t >= 6:
		return "█"
	case t >= 4:
		return "▓"
	case t >= 2:
		return "▒"
	default:
		return "•"
	}
}
