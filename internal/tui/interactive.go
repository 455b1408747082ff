package tui

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/watersim/internal/analysis"
	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/experiment"
	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	blue    = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var presetInfo = map[string]string{
	"reference": "gravity 0.5, damping 0.5",
	"zero_g":    "no gravity, free drift",
	"bouncy":    "walls keep 95% of speed",
	"dense":     "1500 particles, clumped",
	"sticky":    "wide soft repulsion",
}

var tunables = []string{"particles", "gravity", "damping", "interaction_radius", "interaction_force"}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

type model struct {
	state    state
	cursor   int
	presets  []string
	selected string
	cfg      *config.Config

	paramCursor int
	editing     bool
	editBuf     string
	err         string

	registry *experiment.Registry
	engine   *physics.Engine
	buf      *sim.Buffer
	running  bool
	paused   bool
	speed    float64
	carry    float64
	reseeds  int64
	history  []float64

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

func newModel() model {
	return model{
		state:    stateMenu,
		presets:  config.ListPresets(),
		registry: experiment.NewRegistry(),
		speed:    1,
		history:  make([]float64, 0, 60),
		width:    80,
		height:   24,
	}
}

// NewInteractiveApp starts at the preset menu.
func NewInteractiveApp() tea.Model {
	return newModel()
}

// NewLiveApp skips the menus and starts stepping cfg immediately.
func NewLiveApp(cfg *config.Config) (tea.Model, error) {
	m := newModel()
	m.selected = "custom"
	m.cfg = cfg.Clone()
	if err := m.start(); err != nil {
		return nil, err
	}
	m.state = stateSim
	return m, nil
}

func (m model) Init() tea.Cmd {
	if m.state == stateSim {
		return tick()
	}
	return nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.buf != nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1.0 / dt
				}
			}
			m.lastFrame = now
			// fractional speeds step once every 1/speed ticks
			m.carry += m.speed
			steps := int(m.carry)
			m.carry -= float64(steps)
			for i := 0; i < steps; i++ {
				m.step()
			}
		}
		if m.running {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state = stateConfig
		m.paramCursor = 0
		m.err = ""
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	name := tunables[m.paramCursor]

	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			fmt.Sscanf(m.editBuf, "%f", &val)
			m.setTunable(name, val)
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%g", m.tunable(name))
	case "left", "h":
		m.setTunable(name, m.tunable(name)-m.nudge(name))
	case "right", "l":
		m.setTunable(name, m.tunable(name)+m.nudge(name))
	case "s":
		if err := m.start(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.reseeds++
		if err := m.start(); err != nil {
			m.err = err.Error()
		}
		return m, tea.ClearScreen
	case "c":
		m.running = false
		m.state = stateConfig
		m.reset()
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m model) tunable(name string) float64 {
	if name == "particles" {
		return float64(m.cfg.Particles)
	}
	v, _ := m.cfg.Physics.Get(name)
	return v
}

func (m *model) setTunable(name string, v float64) {
	if name == "particles" {
		m.cfg.Particles = max(0, int(v))
		return
	}
	if err := m.cfg.SetParam(name, v); err != nil {
		m.err = err.Error()
	}
}

func (m model) nudge(name string) float64 {
	switch name {
	case "particles":
		return 50
	case "interaction_radius":
		return 1
	case "interaction_force":
		return 0.01
	}
	return 0.1
}

// start seeds a fresh buffer from the current config. Each reseed advances
// the seed so r gives a new layout.
func (m *model) start() error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}
	layout, err := m.registry.GetLayout(m.cfg.Layout)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(m.cfg.Seed + m.reseeds))
	m.engine = physics.NewEngine(m.cfg.Params())
	m.buf = sim.NewBuffer(layout(m.cfg.Particles, m.cfg.Bounds(), rng))
	m.history = make([]float64, 0, 60)
	m.speed = 1
	m.carry = 0
	m.lastFrame = time.Time{}
	m.running = true
	m.paused = false
	m.err = ""
	return nil
}

func (m *model) reset() {
	m.buf = nil
	m.engine = nil
	m.history = nil
}

func (m *model) step() {
	m.buf.Advance(m.engine, m.cfg.Bounds())
	m.history = append(m.history, physics.KineticEnergy(m.buf.Snapshot()))
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("w a t e r s i m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(presetInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 36)) + "\n\n")

	for i, name := range tunables {
		val := fmt.Sprintf("%8.3f", m.tunable(name))
		if name == "particles" {
			val = fmt.Sprintf("%8d", m.cfg.Particles)
		}
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-20s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-20s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.err != "" {
		b.WriteString("\n      " + yellow.Render(m.err) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	cw := m.width - 6
	ch := m.height - 10
	if cw < 40 {
		cw = 40
	}
	if ch < 10 {
		ch = 10
	}

	var (
		grid  [][]int
		tickN int
		n     int
	)
	bounds := m.cfg.Bounds()
	if m.buf != nil {
		m.buf.Read(func(v physics.View, t int) {
			grid = analysis.DensityGrid(v, bounds, cw, ch)
			tickN = t
			n = v.Len()
		})
	}

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.selected), statusText,
		dim.Render(fmt.Sprintf("tick %d  %d particles  x%.2g  %.0ffps", tickN, n, m.speed, m.fps))))
	b.WriteString("   " + dimmer.Render(strings.Repeat("─", cw)) + "\n")

	b.WriteString(renderDensity(grid, "   "))

	b.WriteString("   " + dimmer.Render(strings.Repeat("─", cw)) + "\n")

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s %s\n",
			dim.Render("KE"), cyan.Render(sparkline(m.history, 24)),
			white.Render(fmt.Sprintf("%.1f", m.history[len(m.history)-1]))))
	}
	p := m.cfg.Physics
	b.WriteString("   " + dim.Render(fmt.Sprintf("g=%.2f d=%.2f R=%.1f K=%.3f", p.Gravity, p.Damping, p.InteractionRadius, p.InteractionForce)) + "\n")
	if m.err != "" {
		b.WriteString("   " + yellow.Render(m.err) + "\n")
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r reseed  c config  q quit") + "\n")

	return b.String()
}

// renderDensity paints sparse cells dim blue and dense cells bright cyan.
func renderDensity(grid [][]int, indent string) string {
	peak := 0
	for _, row := range grid {
		for _, c := range row {
			peak = max(peak, c)
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(indent)
		for _, c := range row {
			glyph := string(analysis.Shade(c, peak))
			switch {
			case c == 0:
				b.WriteString(glyph)
			case c*2 > peak:
				b.WriteString(cyan.Render(glyph))
			default:
				b.WriteString(blue.Render(glyph))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / rang * 7)
		idx = min(max(idx, 0), 7)
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func RunInteractive() error {
	p := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RunLive opens the simulation view for cfg directly.
func RunLive(cfg *config.Config) error {
	app, err := NewLiveApp(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
