package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vec"
)

const (
	width           = 72
	height          = 22
	trailCapacity   = 400
	historyCapacity = 600
	frameRate       = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// StartFunc opens a fresh session. The live view calls it again on reset.
type StartFunc func() (*sim.Session, error)

// Model steps a session on every tick and draws body trails.
type Model struct {
	name          string
	start         StartFunc
	g             float64
	sess          *sim.Session
	canvas        *Canvas
	view          Viewport
	trails        [][]vec.Vec2
	energyHistory []float64
	e0            float64
	stepsPerFrame int
	running       bool
	done          bool
	err           error
}

// NewModel starts the first session. g is only used for the energy readout.
func NewModel(name string, g float64, start StartFunc) (Model, error) {
	m := Model{
		name:          name,
		start:         start,
		g:             g,
		canvas:        NewCanvas(width, height),
		stepsPerFrame: 4,
		running:       true,
	}
	if err := m.reset(); err != nil {
		return m, err
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.err = m.reset()
		case "+", "=":
			m.view = m.view.Zoom(0.8)
		case "-", "_":
			m.view = m.view.Zoom(1.25)
		case "f":
			m.view = Fit(m.allPoints()...)
		case ">", ".":
			m.stepsPerFrame = min(m.stepsPerFrame*2, 1024)
		case "<", ",":
			m.stepsPerFrame = max(m.stepsPerFrame/2, 1)
		case "t":
			NextTheme()
		}
	case TickMsg:
		if m.running && !m.done && m.err == nil {
			m.advance(m.stepsPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) reset() error {
	sess, err := m.start()
	if err != nil {
		return err
	}
	m.sess = sess
	m.done = false
	m.err = nil

	f := sess.Frame()
	m.trails = make([][]vec.Vec2, len(f.Bodies))
	for i, b := range f.Bodies {
		m.trails[i] = append(make([]vec.Vec2, 0, trailCapacity), b.Pos)
	}
	m.e0 = nbody.TotalEnergy(f.Bodies, m.g)
	m.energyHistory = append(m.energyHistory[:0], m.e0)
	m.view = Fit(nbody.Positions(f.Bodies)...).Zoom(2)
	return nil
}

// advance runs up to n iterations and records the resulting positions.
func (m *Model) advance(n int) {
	for i := 0; i < n; i++ {
		if m.sess.Done() {
			m.done = true
			break
		}
		f, err := m.sess.Step()
		if err != nil {
			if !errors.Is(err, sim.ErrFinished) {
				m.err = err
			}
			m.done = true
			break
		}
		if i == n-1 || m.sess.Done() {
			for j, b := range f.Bodies {
				m.trails[j] = appendCapped(m.trails[j], b.Pos, trailCapacity)
			}
			m.energyHistory = appendCapped(m.energyHistory, nbody.TotalEnergy(f.Bodies, m.g), historyCapacity)
		}
	}
}

func appendCapped[T any](s []T, v T, capacity int) []T {
	if len(s) >= capacity {
		s = append(s[:0], s[1:]...)
	}
	return append(s, v)
}

func (m *Model) allPoints() []vec.Vec2 {
	var pts []vec.Vec2
	for _, tr := range m.trails {
		pts = append(pts, tr...)
	}
	return pts
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, tr := range m.trails {
		m.canvas.DrawTrack(m.view, tr)
		if last := tr[len(tr)-1]; last.IsFinite() {
			x, y := m.view.Project(m.canvas, last)
			m.canvas.Disc(x, y, 1)
		}
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(m.canvas.String()))

	f := m.sess.Frame()
	status := lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Success).Render("RUNNING")
	switch {
	case m.err != nil:
		status = lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Error).Render("FAILED")
	case m.done:
		status = lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Muted).Render("FINISHED")
	case !m.running:
		status = lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning).Render("PAUSED")
	}

	var s strings.Builder
	s.WriteString(Title(strings.ToUpper(m.name)) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(Row("Time", fmt.Sprintf("%.4f", f.Time)) + "\n")
	s.WriteString(Row("Iteration", fmt.Sprint(f.Step)) + "\n")
	s.WriteString(Row("dt", fmt.Sprintf("%.3e", f.Dt)) + "\n")
	s.WriteString(Row("Steps/frame", fmt.Sprint(m.stepsPerFrame)) + "\n")
	s.WriteString(Row("Bodies", fmt.Sprint(len(f.Bodies))) + "\n")
	s.WriteString(Row("Theme", CurrentTheme.Name) + "\n")

	energy := m.energyHistory[len(m.energyHistory)-1]
	s.WriteString(Row("Energy", fmt.Sprintf("%.6g", energy)) + "\n")
	if m.e0 != 0 {
		drift := abs(energy-m.e0) / abs(m.e0)
		s.WriteString(labelStyle().Render("Drift") + DriftStyle(drift).Render(fmt.Sprintf("%.2e", drift)) + "\n")
	}
	s.WriteString("\n" + subtle().Render(Sparkline(m.energyHistory, 30)) + "\n")

	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Width(34).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\n+/-:Zoom F:Fit T:Theme\n</>:Speed"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Run opens the live view on the alternate screen and blocks until the user
// quits.
func Run(name string, g float64, start StartFunc) error {
	m, err := NewModel(name, g, start)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
