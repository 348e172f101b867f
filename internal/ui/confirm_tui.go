package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	confirmViewportWidth  = 100
	confirmViewportHeight = 18
)

// ConfirmModel is a yes/no prompt over a scrollable body, used to confirm
// cascade previews before dates are written. Large previews scroll with
// the arrow keys.
type ConfirmModel struct {
	Title    string
	Accepted bool

	viewport viewport.Model
	done     bool
}

// NewConfirm builds a confirm prompt with the given header and body.
func NewConfirm(title, body string) ConfirmModel {
	height := strings.Count(body, "\n") + 1
	if height > confirmViewportHeight {
		height = confirmViewportHeight
	}
	vp := viewport.New(confirmViewportWidth, height)
	vp.SetContent(body)
	return ConfirmModel{Title: title, viewport: vp}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y", "enter":
			m.Accepted = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.Accepted = false
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}
	view := StyleSectionTitle.Render(m.Title) + "\n\n" + m.viewport.View() + "\n"
	view += StyleSubtle.Render("apply these changes? [y]es / [n]o, scroll with ↑/↓") + "\n"
	return view
}

// RunConfirm shows the prompt and reports whether the user accepted.
func RunConfirm(title, body string) (bool, error) {
	model, err := tea.NewProgram(NewConfirm(title, body)).Run()
	if err != nil {
		return false, err
	}
	confirm, ok := model.(ConfirmModel)
	if !ok {
		return false, nil
	}
	return confirm.Accepted, nil
}
