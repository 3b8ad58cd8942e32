package tui

import (
	"testing"

	"article-desk/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestMessage(t *testing.T) {
	assert.Empty(t, Message(""))
	assert.Contains(t, Message("Goodbye!"), "Goodbye!")
}

func TestSpinner_View(t *testing.T) {
	s := NewSpinner()
	assert.Empty(t, s.View(false))
	assert.Contains(t, s.View(true), "Please wait")
}

func TestLoginForm_Submit(t *testing.T) {
	var got *model.Credentials
	f := NewLoginForm(func(c model.Credentials) tea.Cmd {
		got = &c
		return nil
	})

	f, _ = f.Update(typeText("bob"), false)
	assert.False(t, f.Ready(), "password still missing")

	f, _ = f.Update(press(tea.KeyEnter), false) // moves to password
	f, _ = f.Update(typeText("pw"), false)
	assert.True(t, f.Ready())
	assert.NotContains(t, f.View(), "pw", "password must be masked")

	f, _ = f.Update(press(tea.KeyEnter), true)
	assert.Nil(t, got, "disabled form must not submit")

	f, _ = f.Update(press(tea.KeyEnter), false)
	require.NotNil(t, got)
	assert.Equal(t, model.Credentials{Username: "bob", Password: "pw"}, *got)
}

func TestLoginForm_RequiresBothFields(t *testing.T) {
	called := false
	f := NewLoginForm(func(model.Credentials) tea.Cmd {
		called = true
		return nil
	})

	f, _ = f.Update(press(tea.KeyTab), false)
	f, _ = f.Update(typeText("pw"), false)
	f, _ = f.Update(press(tea.KeyEnter), false)

	assert.False(t, called)
	assert.Contains(t, f.View(), "username and password required")
}

func TestArticleForm_CreateAndReset(t *testing.T) {
	var created *model.ArticleInput
	f := NewArticleForm(ArticleFormCallbacks{
		OnCreate: func(in model.ArticleInput) tea.Cmd {
			created = &in
			return nil
		},
	})
	assert.Contains(t, f.View(true), "Create Article")

	f, _ = f.Update(typeText("Closures"), false)
	f, _ = f.Update(press(tea.KeyTab), false)
	f, _ = f.Update(typeText("remember scope"), false)
	f, _ = f.Update(press(tea.KeyTab), false)
	assert.False(t, f.Ready(), "topic not chosen yet")

	f, _ = f.Update(press(tea.KeyRight), false)
	assert.Equal(t, model.TopicJavaScript, f.Input().Topic)
	f, _ = f.Update(press(tea.KeyLeft), false)
	assert.Empty(t, f.Input().Topic)
	f, _ = f.Update(press(tea.KeyLeft), false)
	assert.Equal(t, model.TopicNode, f.Input().Topic, "left wraps to the last topic")

	f, _ = f.Update(press(tea.KeyEnter), false)
	require.NotNil(t, created)
	assert.Equal(t, model.ArticleInput{Title: "Closures", Text: "remember scope", Topic: model.TopicNode}, *created)

	f = f.Reset()
	assert.Equal(t, model.ArticleInput{}, f.Input())
	assert.False(t, f.Editing())
}

func TestArticleForm_EditPrepopulates(t *testing.T) {
	var updatedID int
	var updated model.ArticleInput
	cancelled := false
	f := NewArticleForm(ArticleFormCallbacks{
		OnUpdate: func(id int, in model.ArticleInput) tea.Cmd {
			updatedID, updated = id, in
			return nil
		},
		OnCancel: func() tea.Cmd {
			cancelled = true
			return nil
		},
	})

	a := model.Article{ID: 7, Title: "Hooks", Text: "useState", Topic: model.TopicReact}
	f = f.SetArticle(&a)
	assert.True(t, f.Editing())
	assert.Equal(t, a.Input(), f.Input())
	assert.Contains(t, f.View(false), "Edit Article")

	f, _ = f.Update(typeText("!"), false)
	// The same selection arriving again keeps unsaved typing
	f = f.SetArticle(&a)
	assert.Equal(t, "Hooks!", f.Input().Title)

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyCtrlS}, false)
	assert.Equal(t, 7, updatedID)
	assert.Equal(t, "Hooks!", updated.Title)

	f, _ = f.Update(press(tea.KeyEsc), false)
	assert.True(t, cancelled)
	assert.False(t, f.Editing())
	assert.Empty(t, f.Input().Title)
}

func TestArticleForm_SetArticleNilLeavesCreateDraft(t *testing.T) {
	f := NewArticleForm(ArticleFormCallbacks{})
	f, _ = f.Update(typeText("draft"), false)

	f = f.SetArticle(nil)
	assert.Equal(t, "draft", f.Input().Title, "create-mode drafts survive snapshots")
}

var listArticles = []model.Article{
	{ID: 1, Title: "A", Text: "a", Topic: model.TopicNode},
	{ID: 2, Title: "B", Text: "b", Topic: model.TopicReact},
}

func TestArticleList_Actions(t *testing.T) {
	var edited, deleted int
	l := NewArticleList(ArticleListCallbacks{
		OnEdit:   func(id int) tea.Cmd { edited = id; return nil },
		OnDelete: func(id int) tea.Cmd { deleted = id; return nil },
	})

	l, _ = l.Update(press(tea.KeyDown), listArticles, false)
	l, _ = l.Update(typeText("e"), listArticles, false)
	assert.Equal(t, 2, edited)

	l, _ = l.Update(press(tea.KeyUp), listArticles, false)
	l, _ = l.Update(typeText("d"), listArticles, true)
	assert.Zero(t, deleted, "disabled list must not delete")
	l, _ = l.Update(typeText("d"), listArticles, false)
	assert.Equal(t, 1, deleted)

	// Cursor stays in range when the list shrinks
	l, _ = l.Update(press(tea.KeyDown), listArticles, false)
	l, _ = l.Update(typeText("e"), listArticles[:1], false)
	assert.Equal(t, 1, edited)
}

func TestArticleList_View(t *testing.T) {
	l := NewArticleList(ArticleListCallbacks{})
	assert.Contains(t, l.View(nil, nil, false), "No articles yet")

	id := 2
	out := l.View(listArticles, &id, true)
	assert.Contains(t, out, "Topic: React · #2")
	assert.Contains(t, out, "(editing)")
}
