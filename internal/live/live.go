package live

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/odeint/ode"
)

const (
	historyCapacity = 400
	graphWidth      = 64
	graphHeight     = 6
	maxStepsPerTick = 2000
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type TickMsg time.Time

// Model steps an integration in real time and renders a scrolling
// window of every state component.
type Model struct {
	name    string
	f       ode.Field
	stepper ode.Stepper
	y0      ode.State
	t0      float64

	y     ode.State
	t     float64
	dt    float64
	fps   int
	speed float64 // simulated seconds per wall second

	hist    [][]float64
	steps   int
	running bool
	err     error
}

func New(name string, f ode.Field, s ode.Stepper, y0 ode.State, t0, dt float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		name:    name,
		f:       f,
		stepper: s,
		y0:      y0.Clone(),
		t0:      t0,
		y:       y0.Clone(),
		t:       t0,
		dt:      dt,
		fps:     fps,
		speed:   1,
		hist:    make([][]float64, len(y0)),
		running: true,
	}
	if st, ok := s.(ode.Stateful); ok {
		st.Reset()
	}
	m.record()
	return m
}

// Run blocks until the viewer exits.
func Run(name string, f ode.Field, s ode.Stepper, y0 ode.State, t0, dt float64, fps int) error {
	p := tea.NewProgram(New(name, f, s, y0, t0, dt, fps))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input and advances the simulation one frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.speed *= 2
		case "-":
			m.speed /= 2
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance integrates one wall-clock frame worth of simulated time.
func (m *Model) advance() {
	n := int(m.speed/(float64(m.fps)*m.dt) + 0.5)
	if n < 1 {
		n = 1
	}
	if n > maxStepsPerTick {
		n = maxStepsPerTick
	}
	for i := 0; i < n; i++ {
		y1, err := m.stepper.Step(m.f, m.t, m.y, m.dt)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		if !y1.IsValid() {
			m.err = ode.ErrNonFinite
			m.running = false
			return
		}
		if st, ok := m.stepper.(ode.Stateful); ok {
			st.Commit()
		}
		m.y = y1
		m.t += m.dt
		m.steps++
	}
	m.record()
}

func (m *Model) record() {
	for i, v := range m.y {
		m.hist[i] = append(m.hist[i], v)
		if len(m.hist[i]) > historyCapacity {
			m.hist[i] = m.hist[i][1:]
		}
	}
}

func (m *Model) reset() {
	m.y = m.y0.Clone()
	m.t = m.t0
	m.steps = 0
	m.err = nil
	m.running = true
	for i := range m.hist {
		m.hist[i] = nil
	}
	if st, ok := m.stepper.(ode.Stateful); ok {
		st.Reset()
	}
	m.record()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("odeint live: " + m.name))
	b.WriteString("\n\n")

	for i, h := range m.hist {
		if len(h) < 2 {
			continue
		}
		b.WriteString(asciigraph.Plot(h,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("x%d", i)),
		))
		b.WriteString("\n\n")
	}

	status := "running"
	if m.err != nil {
		status = "failed"
	} else if !m.running {
		status = "paused"
	}
	rows := []struct{ label, value string }{
		{"status", status},
		{"t", fmt.Sprintf("%.3f", m.t)},
		{"steps", fmt.Sprintf("%d", m.steps)},
		{"dt", fmt.Sprintf("%g", m.dt)},
		{"speed", fmt.Sprintf("%gx", m.speed)},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("integration failed: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space pause/resume, r reset, +/- speed, q quit"))
	b.WriteString("\n")
	return b.String()
}
