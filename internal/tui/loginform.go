package tui

import (
	"strings"

	"article-desk/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginForm collects a username and password and hands them to onLogin.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int
	onLogin  func(model.Credentials) tea.Cmd
}

func NewLoginForm(onLogin func(model.Credentials) tea.Cmd) LoginForm {
	username := textinput.New()
	username.Placeholder = "Enter username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Enter password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginForm{username: username, password: password, onLogin: onLogin}
}

// Ready reports whether the submit action is enabled.
func (f LoginForm) Ready() bool {
	return strings.TrimSpace(f.username.Value()) != "" && f.password.Value() != ""
}

func (f LoginForm) Update(msg tea.Msg, disabled bool) (LoginForm, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "shift+tab", "up", "down":
			return f.toggleFocus(), nil
		case "enter":
			if f.focus == 0 {
				return f.toggleFocus(), nil
			}
			if disabled || !f.Ready() || f.onLogin == nil {
				return f, nil
			}
			return f, f.onLogin(model.Credentials{
				Username: f.username.Value(),
				Password: f.password.Value(),
			})
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (f LoginForm) toggleFocus() LoginForm {
	if f.focus == 0 {
		f.focus = 1
		f.username.Blur()
		f.password.Focus()
	} else {
		f.focus = 0
		f.password.Blur()
		f.username.Focus()
	}
	return f
}

func (f LoginForm) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Login"))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("User") + f.username.View() + "\n")
	b.WriteString(LabelStyle.Render("Pass") + f.password.View() + "\n\n")
	if f.Ready() {
		b.WriteString(HelpStyle.Render("enter: submit credentials"))
	} else {
		b.WriteString(HelpStyle.Render("username and password required"))
	}
	return b.String()
}
