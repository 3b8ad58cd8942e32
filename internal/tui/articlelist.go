package tui

import (
	"fmt"
	"strings"

	"article-desk/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// ArticleListCallbacks are supplied by the root model.
type ArticleListCallbacks struct {
	OnEdit   func(id int) tea.Cmd
	OnDelete func(id int) tea.Cmd
}

// ArticleList renders the articles it is given. Only the cursor is its own.
type ArticleList struct {
	cursor int
	cb     ArticleListCallbacks
}

func NewArticleList(cb ArticleListCallbacks) ArticleList {
	return ArticleList{cb: cb}
}

func (l ArticleList) Update(msg tea.Msg, articles []model.Article, disabled bool) (ArticleList, tea.Cmd) {
	l.cursor = clamp(l.cursor, len(articles))
	k, ok := msg.(tea.KeyMsg)
	if !ok || len(articles) == 0 {
		return l, nil
	}

	switch k.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(articles)-1 {
			l.cursor++
		}
	case "e", "enter":
		if !disabled && l.cb.OnEdit != nil {
			return l, l.cb.OnEdit(articles[l.cursor].ID)
		}
	case "d", "delete":
		if !disabled && l.cb.OnDelete != nil {
			return l, l.cb.OnDelete(articles[l.cursor].ID)
		}
	}
	return l, nil
}

func (l ArticleList) View(articles []model.Article, editingID *int, focused bool) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Articles"))
	b.WriteString("\n")

	if len(articles) == 0 {
		b.WriteString(HelpStyle.Render("No articles yet"))
	}

	cursor := clamp(l.cursor, len(articles))
	for i, a := range articles {
		marker := "  "
		if focused && i == cursor {
			marker = CursorStyle.Render("> ")
		}
		title := ArticleTitleStyle.Render(a.Title)
		if editingID != nil && *editingID == a.ID {
			title += ArticleMetaStyle.Render(" (editing)")
		}
		b.WriteString(marker + title + "\n")
		b.WriteString("    " + a.Text + "\n")
		b.WriteString("    " + ArticleMetaStyle.Render(fmt.Sprintf("Topic: %s · #%d", a.Topic, a.ID)) + "\n")
	}

	if focused && len(articles) > 0 {
		b.WriteString("\n" + HelpStyle.Render("e: edit · d: delete · ↑/↓: move"))
	}

	if focused {
		return FocusedPanelStyle.Render(b.String())
	}
	return PanelStyle.Render(b.String())
}

// clamp keeps a cursor inside a list of n items.
func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
