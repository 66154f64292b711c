// Package menu provides the interactive authentication method menu.
package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ose-migrate/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ose-migrate/internal/core/domain"
)

// Item represents a single menu option.
type Item struct {
	Key    string
	Label  string
	Method domain.AuthMethod
}

// DefaultItems lists the choices in the order they are offered.
func DefaultItems() []Item {
	return []Item{
		{Key: "1", Label: domain.AuthMethodAPIKey.Description(), Method: domain.AuthMethodAPIKey},
		{Key: "2", Label: domain.AuthMethodCredentials.Description(), Method: domain.AuthMethodCredentials},
		{Key: "0", Label: domain.AuthMethodExit.Description(), Method: domain.AuthMethodExit},
	}
}

// KeyMap defines the menu keybindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("j/k", "navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "exit"),
		),
	}
}

// Model is the bubbletea model for choosing an authentication method.
type Model struct {
	styles   *styles.Styles
	keys     KeyMap
	items    []Item
	selected int
	chosen   bool
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// New creates a new menu model.
func New(s *styles.Styles) *Model {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Model{
		styles: s,
		keys:   DefaultKeyMap(),
		items:  DefaultItems(),
	}
}

// Init initialises the menu.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Down):
		if m.selected < len(m.items)-1 {
			m.selected++
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Select):
		m.chosen = true
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Quit):
		m.selectMethod(domain.AuthMethodExit)
		m.chosen = true
		return m, tea.Quit
	}

	for i, item := range m.items {
		if item.Key == keyMsg.String() {
			m.selected = i
			m.chosen = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) selectMethod(method domain.AuthMethod) {
	for i, item := range m.items {
		if item.Method == method {
			m.selected = i
			return
		}
	}
}

// View renders the menu.
func (m *Model) View() string {
	if m.chosen {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Choose authentication method"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		label := fmt.Sprintf("%s. %s", item.Key, item.Label)
		if i == m.selected {
			cursor = "> "
			label = m.styles.Selected.Render(label)
		} else {
			label = m.styles.Normal.Render(label)
		}
		b.WriteString(cursor + label + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) helpLine() string {
	parts := make([]string, 0, 4)
	for _, b := range []key.Binding{m.keys.Up, m.keys.Select, m.keys.Quit} {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	parts = append(parts, "[1/2/0] choose")
	return strings.Join(parts, "  ")
}

// Selected returns the currently highlighted index.
func (m *Model) Selected() int {
	return m.selected
}

// Choice returns the chosen method and whether a choice was made.
func (m *Model) Choice() (domain.AuthMethod, bool) {
	if !m.chosen {
		return "", false
	}
	return m.items[m.selected].Method, true
}

// Run shows the menu on out, reads keys from in and returns the chosen method.
// An aborted menu yields domain.AuthMethodExit.
func Run(in io.Reader, out io.Writer, s *styles.Styles) (domain.AuthMethod, error) {
	model := New(s)
	final, err := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return "", fmt.Errorf("run menu: %w", err)
	}

	if method, ok := final.(*Model).Choice(); ok {
		return method, nil
	}
	return domain.AuthMethodExit, nil
}
