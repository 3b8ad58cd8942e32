package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Message renders the current status message. It has no state of its own.
func Message(message string) string {
	if message == "" {
		return ""
	}
	return MessageStyle.Render(message)
}

// Spinner shows a loading indicator while on is true. Only the animation
// frame lives here; whether it shows is decided by the controller.
type Spinner struct {
	model spinner.Model
}

func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return Spinner{model: s}
}

func (s Spinner) Tick() tea.Msg {
	return s.model.Tick()
}

func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

func (s Spinner) View(on bool) string {
	if !on {
		return ""
	}
	return s.model.View() + " Please wait..."
}
