package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dirksavage88/camzoom/internal/config"
	"github.com/dirksavage88/camzoom/internal/scenario"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

var presetInfo = map[string]string{
	"instant":  "unbounded slew, square steps",
	"smooth":   "slow slew, gradual convergence",
	"clamped":  "out-of-range commands",
	"creep":    "very low rate, long settle",
	"sine":     "script-driven oscillation",
	"teardown": "mid-flight render teardown",
	"idle":     "no commands",
}

const (
	stateMenu = iota
	stateLive
)

// App wraps the live view behind a preset picker, so `live` without an
// argument still lands somewhere useful.
type App struct {
	state   int
	cursor  int
	presets []string
	err     string
	live    Model
}

func NewApp() App {
	return App{presets: config.ListPresets()}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateLive {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "up", "k":
			if a.cursor > 0 {
				a.cursor--
			}
		case "down", "j":
			if a.cursor < len(a.presets)-1 {
				a.cursor++
			}
		case "enter":
			return a.launch()
		}
	}
	return a, nil
}

func (a App) launch() (tea.Model, tea.Cmd) {
	name := a.presets[a.cursor]
	cfg := config.GetPreset(name)
	if cfg == nil {
		a.err = "unknown preset " + name
		return a, nil
	}
	scn, err := scenario.New(cfg)
	if err != nil {
		a.err = err.Error()
		return a, nil
	}
	a.live = NewModel(scn, nil)
	a.state = stateLive
	return a, a.live.Init()
}

func (a App) View() string {
	if a.state == stateLive {
		return a.live.View()
	}
	var s strings.Builder
	s.WriteString(cyan.Render("CAMZOOM") + "  " + dim.Render("pick a scenario") + "\n\n")
	for i, name := range a.presets {
		line := fmt.Sprintf("%-10s %s", name, presetInfo[name])
		if i == a.cursor {
			s.WriteString(green.Render("> "+line) + "\n")
		} else {
			s.WriteString(white.Render("  "+line) + "\n")
		}
	}
	if a.err != "" {
		s.WriteString("\n" + yellow.Render(a.err) + "\n")
	}
	s.WriteString(dim.Render("\n↑↓:Move Enter:Launch Q:Quit"))
	return s.String()
}
