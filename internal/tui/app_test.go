package tui

import (
	"context"
	"testing"

	"article-desk/internal/api"
	"article-desk/internal/apitest"
	"article-desk/internal/controller"
	"article-desk/internal/model"
	"article-desk/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestModel(t *testing.T) (Model, *controller.Controller, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	ctrl := controller.New(api.NewClient(srv.URL(), 0, nil), session.NewMemoryStore(), zap.NewNop())
	t.Cleanup(ctrl.Close)
	m := New(context.Background(), ctrl)
	t.Cleanup(m.stop)
	return m, ctrl, srv
}

// syncState feeds the controller's current state to the model.
func syncState(t *testing.T, m Model, ctrl *controller.Controller) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(stateMsg(ctrl.State()))
	return next.(Model), cmd
}

func TestModel_LoginView(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	m, _ = syncState(t, m, ctrl)

	out := m.View()
	assert.Contains(t, out, "Advanced Web Applications")
	assert.Contains(t, out, "Pass")
	assert.NotContains(t, out, "Create Article")
}

func TestModel_LoginFlow(t *testing.T) {
	m, ctrl, srv := newTestModel(t)
	srv.Seed(model.Article{ID: 1, Title: "Closures", Text: "scope", Topic: model.TopicJavaScript})

	msg := m.loginCmd(model.Credentials{Username: "bob", Password: "pw"})()
	done, ok := msg.(opDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	m, cmd := syncState(t, m, ctrl)
	require.NotNil(t, cmd, "entering the articles view should fetch")
	assert.Equal(t, controller.ViewArticles, m.state.View)

	require.NoError(t, m.fetchCmd()().(opDoneMsg).err)
	m, _ = syncState(t, m, ctrl)

	out := m.View()
	assert.Contains(t, out, "Create Article")
	assert.Contains(t, out, "Closures")
	assert.Contains(t, out, "Here are your articles, bob!")
}

func TestModel_EditAndSave(t *testing.T) {
	m, ctrl, srv := newTestModel(t)
	srv.Seed(model.Article{ID: 4, Title: "Hooks", Text: "useState", Topic: model.TopicReact})
	require.NoError(t, ctrl.Login(context.Background(), model.Credentials{Username: "bob", Password: "pw"}))
	require.NoError(t, ctrl.GetArticles(context.Background()))
	m, _ = syncState(t, m, ctrl)

	m.pane = paneList
	require.NoError(t, m.selectCmd(4)().(opDoneMsg).err)
	m, _ = syncState(t, m, ctrl)

	assert.Equal(t, paneForm, m.pane, "selecting an article focuses the form")
	assert.True(t, m.form.Editing())
	assert.Equal(t, "Hooks", m.form.Input().Title)

	saved := m.updateCmd(4, model.ArticleInput{Title: "Hooks 2", Text: "useMemo", Topic: model.TopicReact})().(articleSavedMsg)
	assert.Equal(t, controller.OutcomeSuccess, saved.outcome)

	next, _ := m.Update(saved)
	m = next.(Model)
	m, _ = syncState(t, m, ctrl)

	assert.False(t, m.form.Editing())
	assert.Empty(t, m.form.Input().Title)
	assert.Contains(t, m.View(), "Hooks 2")
}

func TestModel_FailedCreateKeepsInputs(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	require.NoError(t, ctrl.Login(context.Background(), model.Credentials{Username: "bob", Password: "pw"}))
	m, _ = syncState(t, m, ctrl)

	var next tea.Model
	next, _ = m.Update(typeText("Draft"))
	m = next.(Model)

	next, _ = m.Update(articleSavedMsg{outcome: controller.OutcomeFailure})
	m = next.(Model)
	assert.Equal(t, "Draft", m.form.Input().Title)

	next, _ = m.Update(articleSavedMsg{outcome: controller.OutcomeIndeterminate})
	m = next.(Model)
	assert.Equal(t, "Draft", m.form.Input().Title)
}

func TestModel_LogoutReturnsToLogin(t *testing.T) {
	m, ctrl, _ := newTestModel(t)
	require.NoError(t, ctrl.Login(context.Background(), model.Credentials{Username: "bob", Password: "pw"}))
	m, _ = syncState(t, m, ctrl)

	require.NoError(t, m.logoutCmd()().(opDoneMsg).err)
	m, _ = syncState(t, m, ctrl)

	out := m.View()
	assert.Contains(t, out, "Goodbye!")
	assert.Contains(t, out, "Pass")
}

func TestModel_QuitsWhenControllerCloses(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(stateClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
