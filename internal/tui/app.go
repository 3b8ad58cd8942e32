package tui

import (
	"context"
	"strings"

	"article-desk/internal/controller"
	"article-desk/internal/model"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Controller is what the views need from the root controller.
type Controller interface {
	Subscribe() (<-chan controller.State, func())
	Login(ctx context.Context, creds model.Credentials) error
	Logout(ctx context.Context) error
	GetArticles(ctx context.Context) error
	PostArticle(ctx context.Context, in model.ArticleInput) (controller.Outcome, error)
	UpdateArticle(ctx context.Context, id int, in model.ArticleInput) (controller.Outcome, error)
	DeleteArticle(ctx context.Context, id int) error
	SelectArticle(id int) error
	ClearSelection()
}

type pane int

const (
	paneForm pane = iota
	paneList
)

// Messages
type stateMsg controller.State
type stateClosedMsg struct{}
type opDoneMsg struct {
	op  string
	err error
}
type articleSavedMsg struct {
	outcome controller.Outcome
	err     error
}

type keyMap struct {
	Quit    key.Binding
	Logout  key.Binding
	Pane    key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "logout"),
		),
		Pane: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "form/list"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
	}
}

// Model is the top-level bubbletea model. It renders controller snapshots
// and turns user actions into controller calls.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	updates <-chan controller.State
	stop    func()

	state   controller.State
	spinner Spinner
	login   LoginForm
	form    ArticleForm
	list    ArticleList
	pane    pane
	keys    keyMap
}

func New(ctx context.Context, ctrl Controller) Model {
	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		spinner: NewSpinner(),
		keys:    defaultKeys(),
	}
	m.updates, m.stop = ctrl.Subscribe()
	m.login = NewLoginForm(m.loginCmd)
	m.form = NewArticleForm(ArticleFormCallbacks{
		OnCreate: m.postCmd,
		OnUpdate: m.updateCmd,
		OnCancel: m.cancelEditCmd,
	})
	m.list = NewArticleList(ArticleListCallbacks{
		OnEdit:   m.selectCmd,
		OnDelete: m.deleteCmd,
	})
	return m
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, ctrl Controller, opts ...tea.ProgramOption) error {
	m := New(ctx, ctrl)
	defer m.stop()
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.updates))
}

func waitForState(updates <-chan controller.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return stateClosedMsg{}
		}
		return stateMsg(s)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		return m.applyState(controller.State(msg))

	case stateClosedMsg:
		return m, tea.Quit

	case articleSavedMsg:
		if msg.outcome == controller.OutcomeSuccess {
			m.form = m.form.Reset()
		}
		return m, nil

	case opDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Logout):
			return m, m.logoutCmd()
		}
		if m.state.View == controller.ViewArticles {
			switch {
			case key.Matches(msg, m.keys.Pane):
				m.pane = (m.pane + 1) % 2
				return m, nil
			case key.Matches(msg, m.keys.Refresh):
				return m, m.fetchCmd()
			}
		}
		return m.updateFocused(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// applyState takes a new snapshot and reacts to view and selection changes.
func (m Model) applyState(next controller.State) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = next
	cmds := []tea.Cmd{waitForState(m.updates)}

	if next.View == controller.ViewArticles && prev.View != controller.ViewArticles {
		cmds = append(cmds, m.fetchCmd())
	}

	var current *model.Article
	if next.CurrentArticleID != nil {
		for i := range next.Articles {
			if next.Articles[i].ID == *next.CurrentArticleID {
				current = &next.Articles[i]
				break
			}
		}
		if prev.CurrentArticleID == nil || *prev.CurrentArticleID != *next.CurrentArticleID {
			m.pane = paneForm
		}
	}
	m.form = m.form.SetArticle(current)

	return m, tea.Batch(cmds...)
}

func (m Model) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	busy := m.state.Spinner
	var cmd tea.Cmd
	switch {
	case m.state.View == controller.ViewLogin:
		m.login, cmd = m.login.Update(msg, busy)
	case m.pane == paneForm:
		m.form, cmd = m.form.Update(msg, busy)
	default:
		m.list, cmd = m.list.Update(msg, m.state.Articles, busy)
	}
	return m, cmd
}

// Commands wrapping controller operations. They run off the UI goroutine.

func (m Model) loginCmd(creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "login", err: m.ctrl.Login(m.ctx, creds)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "logout", err: m.ctrl.Logout(m.ctx)}
	}
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "list", err: m.ctrl.GetArticles(m.ctx)}
	}
}

func (m Model) postCmd(in model.ArticleInput) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.ctrl.PostArticle(m.ctx, in)
		return articleSavedMsg{outcome: outcome, err: err}
	}
}

func (m Model) updateCmd(id int, in model.ArticleInput) tea.Cmd {
	return func() tea.Msg {
		outcome, err := m.ctrl.UpdateArticle(m.ctx, id, in)
		return articleSavedMsg{outcome: outcome, err: err}
	}
}

func (m Model) deleteCmd(id int) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "delete", err: m.ctrl.DeleteArticle(m.ctx, id)}
	}
}

func (m Model) selectCmd(id int) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: "select", err: m.ctrl.SelectArticle(id)}
	}
}

func (m Model) cancelEditCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.ClearSelection()
		return opDoneMsg{op: "cancel"}
	}
}

func (m Model) View() string {
	var b strings.Builder

	if s := m.spinner.View(m.state.Spinner); s != "" {
		b.WriteString(s + "\n")
	}
	if msg := Message(m.state.Message); msg != "" {
		b.WriteString(msg + "\n")
	}
	b.WriteString("\n")

	var page strings.Builder
	page.WriteString(TitleStyle.Render("Advanced Web Applications"))
	page.WriteString("\n")
	page.WriteString(m.nav())
	page.WriteString("\n\n")

	if m.state.View == controller.ViewArticles {
		page.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.form.View(m.pane == paneForm),
			" ",
			m.list.View(m.state.Articles, m.state.CurrentArticleID, m.pane == paneList),
		))
	} else {
		page.WriteString(PanelStyle.Render(m.login.View()))
	}

	if m.state.Spinner {
		b.WriteString(DimStyle.Render(page.String()))
	} else {
		b.WriteString(page.String())
	}

	b.WriteString("\n\n")
	b.WriteString(HelpStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) nav() string {
	login, articles := NavInactiveStyle, NavInactiveStyle
	if m.state.View == controller.ViewArticles {
		articles = NavActiveStyle
	} else {
		login = NavActiveStyle
	}
	return login.Render("Login") + " " + articles.Render("Articles")
}

func (m Model) helpLine() string {
	bindings := []key.Binding{m.keys.Logout, m.keys.Quit}
	if m.state.View == controller.ViewArticles {
		bindings = append([]key.Binding{m.keys.Pane, m.keys.Refresh}, bindings...)
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
