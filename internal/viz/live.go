package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/history"
	"github.com/san-kum/attractor/internal/metrics"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	panelWidth    = 46
	trailLevels   = 8
	speedHistory  = 120
	plotSamples   = 40
	maxPerFrame   = 5000
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(panelWidth)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Source is the pull interface the live view drives; *sim.Session
// satisfies it.
type Source interface {
	Advance(k int) (dynamo.Segment, error)
	Window() *history.Window
	Name() string
	Dt() float64
	Steps() int
	Time() float64
}

type TickMsg time.Time

// Model renders a session's history window as fading 3D trails and pulls
// StepsPerFrame new steps on every tick.
type Model struct {
	src           Source
	fps           int
	stepsPerFrame int
	width, height int
	canvas        *Canvas
	camera        *Camera
	fitted        bool
	running       bool
	autoRotate    bool
	showAxes      bool
	showHelp      bool
	themeIdx      int
	palette       []lipgloss.Style
	speeds        []float64
	lastAdvance   time.Duration
	err           error
}

func NewModel(src Source, stepsPerFrame, fps int) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	if fps < 1 {
		fps = 30
	}
	m := Model{
		src:           src,
		fps:           fps,
		stepsPerFrame: stepsPerFrame,
		width:         defaultWidth,
		height:        defaultHeight,
		canvas:        NewCanvas(defaultWidth-panelWidth, defaultHeight-2),
		camera:        NewCamera(),
		running:       true,
		autoRotate:    true,
		speeds:        make([]float64, 0, speedHistory),
	}
	m.palette = Themes[0].TrailPalette(trailLevels)
	return m
}

// SetTheme selects the starting theme by name; T still cycles from there.
func (m *Model) SetTheme(name string) error {
	i := themeIndex(name)
	if i < 0 {
		return fmt.Errorf("unknown theme %q (have %s)", name, strings.Join(ThemeNames(), ", "))
	}
	m.themeIdx = i
	m.palette = Themes[i].TrailPalette(trailLevels)
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Err is the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) StepsPerFrame() int { return m.stepsPerFrame }
func (m Model) Running() bool      { return m.running }
func (m Model) Theme() Theme       { return Themes[m.themeIdx] }
func (m Model) Camera() *Camera    { return m.camera }

// Update handles input events and advances the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas = NewCanvas(m.width-panelWidth-4, m.height-2)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.advance()
			}
		case "up", "k":
			m.stepsPerFrame = min(m.stepsPerFrame*2, maxPerFrame)
		case "down", "j":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "m":
			m.autoRotate = !m.autoRotate
		case "a":
			m.showAxes = !m.showAxes
		case "f":
			m.fitted = false
		case "t":
			m.themeIdx = (m.themeIdx + 1) % len(Themes)
			m.palette = Themes[m.themeIdx].TrailPalette(trailLevels)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance()
			if m.err != nil {
				return m, tea.Quit
			}
		}
		if m.autoRotate {
			m.camera.RotateY(0.01)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	t0 := time.Now()
	if _, err := m.src.Advance(m.stepsPerFrame); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.lastAdvance = time.Since(t0)

	st := metrics.Stats(m.src.Window(), m.src.Dt(), 0)
	m.speeds = append(m.speeds, st.MeanSpeed)
	if len(m.speeds) > speedHistory {
		m.speeds = m.speeds[1:]
	}
	if !m.fitted && st.Lo != nil {
		m.fitted = m.camera.Fit(st.Lo, st.Hi)
	}
}

// draw projects every particle's trail; older samples get lower levels.
func (m *Model) draw() {
	m.canvas.Clear()
	win := m.src.Window()
	seg := win.Get()
	filled := win.Filled()
	if filled == 0 {
		return
	}

	pw, ph := m.canvas.PixelSize()
	first := seg.S - filled
	for p := 0; p < seg.P; p++ {
		px, py, ok := 0, 0, false
		for s := first; s < seg.S; s++ {
			pt := seg.Point(p, s)
			if !finitePoint(pt) {
				ok = false
				continue
			}
			x, y, _, vis := m.camera.Project(FromSlice(pt), pw, ph)
			level := uint8((s - first) * trailLevels / filled)
			if vis && ok {
				m.canvas.DrawLine(px, py, x, y, level)
			} else if vis {
				m.canvas.SetLevel(x, y, level)
			}
			px, py, ok = x, y, vis
		}
	}

	if m.showAxes {
		Render3D(m.canvas, CreateAxesWireframe(m.camera.Center, 0.5/m.camera.Norm), m.camera)
	}
}

func finitePoint(p []float64) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// coordinatePlot samples particle 0's first coordinate over the filled window.
func coordinatePlot(win *history.Window) []float64 {
	filled := win.Filled()
	if filled < 2 {
		return nil
	}
	seg := win.Get()
	n := min(plotSamples, filled)
	out := make([]float64, 0, n)
	first := seg.S - filled
	for i := 0; i < n; i++ {
		s := first + i*(filled-1)/max(n-1, 1)
		v := seg.At(0, s, 0)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := Themes[m.themeIdx]
	canvasView := canvasStyle.Render(m.canvas.Render(m.palette))

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(theme.Secondary).Render(strings.ToUpper(m.src.Name())) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.err != nil {
		status = "STOPPED: " + m.err.Error()
	}
	s.WriteString(status + "\n\n")

	win := m.src.Window()
	st := metrics.Stats(win, m.src.Dt(), 0)
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f", m.src.Time()))
	row("Steps", fmt.Sprintf("%d", m.src.Steps()))
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerFrame))
	row("Advance", m.lastAdvance.Round(time.Microsecond).String())
	row("Particles", fmt.Sprintf("%d", win.Particles()))
	row("Window", ProgressBar(float64(st.Filled)/float64(win.Capacity()), 16)+fmt.Sprintf(" %d", st.Filled))
	row("Speed", fmt.Sprintf("%.2f", st.MeanSpeed))
	if st.NonFinite > 0 {
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(fmt.Sprintf("%d particles diverged", st.NonFinite)) + "\n")
	}
	s.WriteString(graphStyle.Render(SparklineChart(m.speeds, 30)) + "\n")

	if data := coordinatePlot(win); len(data) > 1 {
		chart := asciigraph.Plot(data, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("x[0] over window"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause  .:Step  ↑↓:Rate  Q:Quit\nXYZ:Rotate  +-:Zoom  M:Spin  T:Theme\nA:Axes  F:Refit  ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single frame when paused ║
║  Up/K     - Double steps per frame   ║
║  Down/J   - Halve steps per frame    ║
║  x/y/z    - Rotate (shift reverses)  ║
║  + / -    - Zoom                     ║
║  M        - Toggle auto-rotate       ║
║  A        - Toggle axes              ║
║  F        - Refit camera to trails   ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}
