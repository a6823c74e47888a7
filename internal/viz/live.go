package viz

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/scenario"
)

const (
	canvasWidth   = 56
	canvasHeight  = 20
	historyLimit  = 600
	frameInterval = time.Second / 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// ReloadMsg reports a changed scenario file while watching.
type ReloadMsg struct{ Path string }

// Model is the live view: one scenario stepped one tick per frame, with
// keyboard zoom commands going through the same transport topic as
// scripted ones.
type Model struct {
	scn     *scenario.Scenario
	watcher *scenario.Watcher

	canvas   *Canvas
	history  []float64
	running  bool
	showHelp bool
	status   string
	target   float64
}

func NewModel(scn *scenario.Scenario, watcher *scenario.Watcher) Model {
	return Model{
		scn:     scn,
		watcher: watcher,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		history: make([]float64, 0, historyLimit),
		running: true,
		target:  1.0,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frame(), waitForReload(m.watcher))
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForReload(w *scenario.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-w.Events
		if !ok {
			return nil
		}
		return ReloadMsg{Path: path}
	}
}

// Update handles input events and steps the scenario.
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
		case "t":
			m.scn.Teardown()
			m.status = "teardown sent"
		case "e":
			m.scn.LoadEngine()
			m.status = "engine loaded"
		case "+", "=":
			m.command(m.target * 1.25)
		case "-", "_":
			m.command(m.target * 0.8)
		case "?":
			m.showHelp = !m.showHelp
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.command(float64(msg.String()[0] - '0'))
		}
	case TickMsg:
		if m.running {
			m.scn.Step()
			m.record()
		}
		return m, frame()
	case ReloadMsg:
		m.reload(msg.Path)
		return m, waitForReload(m.watcher)
	}
	return m, nil
}

// command publishes a zoom request on the controller's topic, clamped
// to the configured range so the target readout stays honest.
func (m *Model) command(z float64) {
	max := m.scn.Config().Zoom.MaxZoom
	if z < 1 {
		z = 1
	}
	if z > max {
		z = max
	}
	m.target = z
	m.scn.Publish(z)
	m.status = fmt.Sprintf("zoom %.2fx requested", z)
}

func (m *Model) record() {
	comp := m.scn.CameraComponent()
	if comp == nil {
		return
	}
	m.history = append(m.history, comp.HorizontalFov)
	if len(m.history) > historyLimit {
		m.history = m.history[1:]
	}
}

// reset rebuilds the scenario from its latest config.
func (m *Model) reset() {
	scn, err := scenario.New(m.scn.Config())
	if err != nil {
		m.status = fmt.Sprintf("reset failed: %v", err)
		return
	}
	m.scn = scn
	m.history = m.history[:0]
	m.target = 1.0
	m.status = "reset"
}

// reload folds a changed scenario file into the running session without
// touching controller state.
func (m *Model) reload(path string) {
	next := m.scn.Config()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		loaded, err := config.Load(path)
		if err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
			return
		}
		next = loaded
	}
	if err := m.scn.Reload(next); err != nil {
		m.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	m.status = "reloaded " + filepath.Base(path)
}

// View renders the wedge canvas beside the stats panel.
func (m Model) View() string {
	comp := m.scn.CameraComponent()
	hfov := 0.0
	if comp != nil {
		hfov = comp.HorizontalFov
	}
	RenderWedge(m.canvas, hfov, m.scn.System().GoalHfov())
	canvasView := canvasStyle.Render(m.canvas.String())

	ref := m.scn.Config().ReferenceHfov()
	z := 0.0
	if hfov > 0 {
		z = ref / hfov
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scn.Config().Camera.Sensor)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "  " + PhaseLabel(m.scn.System().Phase()) + "\n\n")
	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("HFOV (rad)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.scn.SimTime().Seconds())) + "\n")
	s.WriteString(labelStyle.Render("HFOV") + valueStyle.Render(fmt.Sprintf("%.4f rad", hfov)) + "\n")
	s.WriteString(labelStyle.Render("Goal") + valueStyle.Render(fmt.Sprintf("%.4f rad", m.scn.System().GoalHfov())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx %s", z, ZoomBar(z, m.scn.Config().Zoom.MaxZoom, 10))) + "\n")
	s.WriteString(labelStyle.Render("Topic") + valueStyle.Render(m.scn.System().Topic()) + "\n")
	if m.status != "" {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\n1-9:Zoom +/-:Step T:Teardown\nE:Engine SP:Pause R:Reset\nQ:Quit ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  1-9      - Request zoom factor      ║
║  + / -    - Step zoom up/down        ║
║  T        - Tear rendering down      ║
║  E        - Load the render engine   ║
║  Space    - Pause/Resume ticking     ║
║  R        - Reset the scenario       ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`
