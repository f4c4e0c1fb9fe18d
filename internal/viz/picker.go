package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuDimmer   = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateLive
)

type Item struct {
	Name        string
	Description string
}

// Params are the knobs the picker lets the user edit before launching.
type Params struct {
	Count    float64
	Seed     float64
	GravityY float64
	Damping  float64
}

var paramNames = []string{"count", "seed", "gravity", "damping"}

func (p *Params) field(i int) *float64 {
	switch i {
	case 0:
		return &p.Count
	case 1:
		return &p.Seed
	case 2:
		return &p.GravityY
	default:
		return &p.Damping
	}
}

// Launcher builds the live view for a picked scene.
type Launcher func(scene string, p Params) (Model, error)

type picker struct {
	state, cursor int
	items         []Item
	params        Params
	paramCursor   int
	editing       bool
	editBuf       string
	launch        Launcher
	live          Model
	err           error
}

func NewPicker(items []Item, defaults Params, launch Launcher) tea.Model {
	return picker{items: items, params: defaults, launch: launch}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) > 0 {
			m.state, m.paramCursor, m.err = stateConfig, 0, nil
		}
	}
	return m, nil
}

func (m picker) configKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				*m.params.field(m.paramCursor) = val
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", *m.params.field(m.paramCursor))
	case "left", "h":
		*m.params.field(m.paramCursor) -= 1
	case "right", "l":
		*m.params.field(m.paramCursor) += 1
	case "s":
		live, err := m.launch(m.items[m.cursor].Name, m.params)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.state = live, stateLive
		return m, m.live.Init()
	}
	return m, nil
}

func (m picker) View() string {
	switch m.state {
	case stateConfig:
		return m.viewConfig()
	case stateLive:
		return m.live.View()
	default:
		return m.viewMenu()
	}
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuDim.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("SCENECORE") + "\n    " + menuSub.Render("real-time scene engine") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, it := range m.items {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-12s", it.Name)), menuDesc.Render(it.Description)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuDim.Render(fmt.Sprintf("  %-12s", it.Name)), menuDimmer.Render(it.Description)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m picker) viewConfig() string {
	var b strings.Builder
	it := m.items[m.cursor]
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(it.Name)) + "\n    " + menuSub.Render(it.Description) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range paramNames {
		valStr := fmt.Sprintf("%8.3f", *m.params.field(i))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuDim.Render(fmt.Sprintf("  %-10s", name)), menuDimmer.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunPicker shows the scene menu and launches the chosen scene.
func RunPicker(items []Item, defaults Params, launch Launcher) error {
	_, err := tea.NewProgram(NewPicker(items, defaults, launch), tea.WithAltScreen()).Run()
	return err
}
