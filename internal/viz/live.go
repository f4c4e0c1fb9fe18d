package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/san-kum/scenecore/internal/logging"
	"github.com/san-kum/scenecore/internal/loop"
	"github.com/san-kum/scenecore/internal/metrics"
	"github.com/san-kum/scenecore/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

type TickMsg time.Time

// Factory builds a fresh simulator. The viewer calls it on start and on
// every reset.
type Factory func() (*sim.Simulator, error)

// session is the mutable state shared by copies of Model.
type session struct {
	sim    *sim.Simulator
	driver *loop.Driver
	alpha  float64
	energy []float64
	err    error
}

// Model drives a scene in real time: every bubbletea tick is one frame of a
// loop.Driver, which runs the fixed steps and drops any backlog beyond its
// step cap.
type Model struct {
	name    string
	cfg     loop.Config
	factory Factory
	clock   loop.Clock
	logger  *zap.Logger

	s        *session
	canvas   *Canvas
	camera   *Camera
	showHelp bool
}

type Option func(*Model)

// WithClock replaces the system clock, for tests.
func WithClock(c loop.Clock) Option { return func(m *Model) { m.clock = c } }

func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.logger = logging.OrNop(l) }
}

func NewModel(name string, cfg loop.Config, factory Factory, opts ...Option) (Model, error) {
	m := Model{
		name:    name,
		cfg:     cfg,
		factory: factory,
		clock:   loop.SystemClock{},
		logger:  logging.Nop(),
		canvas:  NewCanvas(width, height),
		camera:  NewCamera(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.reset(); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) reset() error {
	s, err := m.factory()
	if err != nil {
		return err
	}
	sess := &session{sim: s, energy: make([]float64, 0, historyCapacity)}
	d, err := loop.New(m.cfg, func(dt float64) error {
		return s.Step(dt)
	}, loop.WithClock(m.clock), loop.WithLogger(m.logger), loop.WithRender(func(dt, alpha float64) {
		sess.alpha = alpha
	}))
	if err != nil {
		return err
	}
	d.Start()
	sess.driver = d
	s.Scene().RefreshBounds()
	m.s = sess
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the driver.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.s.driver.Stop()
			return m, tea.Quit
		case " ":
			m.s.driver.TogglePause()
		case ".":
			if m.s.driver.Paused() {
				m.s.err = m.s.sim.Step(m.cfg.FixedStep)
				m.record()
			}
		case "r":
			if err := m.reset(); err != nil {
				m.s.err = err
			}
		case "v":
			m.camera.Next()
		case "left", "h":
			m.camera.RotateYaw(-0.1)
		case "right", "l":
			m.camera.RotateYaw(0.1)
		case "up", "k":
			m.camera.RotatePitch(0.1)
		case "down", "j":
			m.camera.RotatePitch(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(msg.Width-50, 20)
		h := max(msg.Height-4, 8)
		if w != m.canvas.Width || h != m.canvas.Height {
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		m.frame()
		return m, tick()
	}
	return m, nil
}

func (m *Model) frame() {
	steps, err := m.s.driver.Tick()
	if err != nil {
		m.s.err = err
		m.logger.Warn("frame failed", zap.Error(err))
	}
	if steps > 0 {
		m.record()
	}
}

func (m *Model) record() {
	e := metrics.MechanicalEnergy(m.s.sim.Scene())
	if len(m.s.energy) == historyCapacity {
		copy(m.s.energy, m.s.energy[1:])
		m.s.energy = m.s.energy[:historyCapacity-1]
	}
	m.s.energy = append(m.s.energy, e)
}

// Paused reports whether the driver is paused.
func (m Model) Paused() bool { return m.s.driver.Paused() }

func (m Model) Simulator() *sim.Simulator { return m.s.sim }

func (m Model) Stats() loop.Stats { return m.s.driver.Stats() }

func (m Model) Camera() *Camera { return m.camera }

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single step while paused ║
║  R        - Reset scene              ║
║  V        - Cycle side/top/orbit     ║
║  Arrows   - Orbit camera             ║
║  + / -    - Zoom                     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`

// View renders the canvas and the stats panel.
func (m Model) View() string {
	DrawScene(m.canvas, m.camera, m.s.sim.Scene())
	canvasView := canvasStyle.Render(m.canvas.String())

	stats := m.s.driver.Stats()
	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.s.err != nil:
		s.WriteString(StatusError.Render("ERROR "+m.s.err.Error()) + "\n\n")
	case m.s.driver.Paused():
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	default:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	}

	if len(m.s.energy) > 1 {
		chart := asciigraph.Plot(m.s.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.s.sim.Time()))
	row("Steps", fmt.Sprintf("%d", m.s.sim.Steps()))
	row("Dropped", fmt.Sprintf("%d (%.2fs)", stats.Dropped, stats.DroppedTime))
	row("FPS", fmt.Sprintf("%d", stats.FPS))
	row("Entities", fmt.Sprintf("%d", m.s.sim.Scene().Len()))
	row("Bodies", fmt.Sprintf("%d", m.bodies()))
	if len(m.s.energy) > 0 {
		row("Energy", fmt.Sprintf("%.3f", m.s.energy[len(m.s.energy)-1]))
	}
	row("View", m.camera.View.String())
	s.WriteString(MetricLabel.Render("Alpha") + ProgressBar(m.s.alpha, 16) + "\n")
	s.WriteString(MetricLabel.Render("Trend") + SparklineChart(m.s.energy, 16) + "\n")

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause .:Step R:Reset Q:Quit\nV:View T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m Model) bodies() int {
	if in := m.s.sim.Scene().Physics(); in != nil {
		return in.Len()
	}
	return 0
}

// RunLive opens the viewer in the alternate screen and blocks until the
// user quits.
func RunLive(name string, cfg loop.Config, factory Factory, opts ...Option) error {
	m, err := NewModel(name, cfg, factory, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
