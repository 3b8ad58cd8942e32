package tui

import (
	"strings"

	"article-desk/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldText
	fieldTopic
	fieldCount
)

// ArticleFormCallbacks are supplied by the root model.
type ArticleFormCallbacks struct {
	OnCreate func(model.ArticleInput) tea.Cmd
	OnUpdate func(id int, in model.ArticleInput) tea.Cmd
	OnCancel func() tea.Cmd
}

// ArticleForm creates a new article, or edits the one handed to SetArticle.
type ArticleForm struct {
	title     textinput.Model
	text      textinput.Model
	topic     int // index into model.Topics, -1 for none
	focus     int
	editingID *int
	cb        ArticleFormCallbacks
}

func NewArticleForm(cb ArticleFormCallbacks) ArticleForm {
	title := textinput.New()
	title.Placeholder = "Enter title"
	title.CharLimit = 50
	title.Focus()

	text := textinput.New()
	text.Placeholder = "Enter text"
	text.CharLimit = 2000

	return ArticleForm{title: title, text: text, topic: -1, cb: cb}
}

// SetArticle pre-populates the fields from a, or resets them when a is nil.
// Calling it again for the article already being edited keeps the user's
// unsaved changes.
func (f ArticleForm) SetArticle(a *model.Article) ArticleForm {
	if a == nil {
		if f.editingID != nil {
			return f.Reset()
		}
		return f
	}
	if f.editingID != nil && *f.editingID == a.ID {
		return f
	}
	id := a.ID
	f.editingID = &id
	f.title.SetValue(a.Title)
	f.text.SetValue(a.Text)
	f.topic = topicIndex(a.Topic)
	return f
}

// Reset clears every field and returns to create mode.
func (f ArticleForm) Reset() ArticleForm {
	f.editingID = nil
	f.title.Reset()
	f.text.Reset()
	f.topic = -1
	return f.focusField(fieldTitle)
}

func (f ArticleForm) Editing() bool {
	return f.editingID != nil
}

// Input returns what the user typed.
func (f ArticleForm) Input() model.ArticleInput {
	in := model.ArticleInput{Title: f.title.Value(), Text: f.text.Value()}
	if f.topic >= 0 {
		in.Topic = model.Topics[f.topic]
	}
	return in
}

// Ready reports whether the submit action is enabled.
func (f ArticleForm) Ready() bool {
	_, err := f.Input().Normalize()
	return err == nil
}

func (f ArticleForm) Update(msg tea.Msg, disabled bool) (ArticleForm, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return f.focusField((f.focus + 1) % fieldCount), nil
		case "shift+tab", "up":
			return f.focusField((f.focus + fieldCount - 1) % fieldCount), nil
		case "esc":
			f = f.Reset()
			if f.cb.OnCancel != nil {
				return f, f.cb.OnCancel()
			}
			return f, nil
		case "enter", "ctrl+s":
			if f.focus != fieldTopic && k.String() == "enter" {
				return f.focusField(f.focus + 1), nil
			}
			return f, f.submit(disabled)
		}
		if f.focus == fieldTopic {
			switch k.String() {
			case "left", "h":
				f.topic--
				if f.topic < -1 {
					f.topic = len(model.Topics) - 1
				}
				return f, nil
			case "right", "l", " ":
				f.topic++
				if f.topic >= len(model.Topics) {
					f.topic = -1
				}
				return f, nil
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldText:
		f.text, cmd = f.text.Update(msg)
	}
	return f, cmd
}

func (f ArticleForm) submit(disabled bool) tea.Cmd {
	if disabled || !f.Ready() {
		return nil
	}
	in := f.Input()
	if f.editingID != nil {
		if f.cb.OnUpdate == nil {
			return nil
		}
		return f.cb.OnUpdate(*f.editingID, in)
	}
	if f.cb.OnCreate == nil {
		return nil
	}
	return f.cb.OnCreate(in)
}

func (f ArticleForm) focusField(i int) ArticleForm {
	f.focus = i
	f.title.Blur()
	f.text.Blur()
	switch i {
	case fieldTitle:
		f.title.Focus()
	case fieldText:
		f.text.Focus()
	}
	return f
}

func (f ArticleForm) View(focused bool) string {
	var b strings.Builder
	if f.editingID != nil {
		b.WriteString(TitleStyle.Render("Edit Article"))
	} else {
		b.WriteString(TitleStyle.Render("Create Article"))
	}
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Title") + f.title.View() + "\n")
	b.WriteString(LabelStyle.Render("Text") + f.text.View() + "\n")

	topic := "-- Select topic --"
	if f.topic >= 0 {
		topic = string(model.Topics[f.topic])
	}
	if f.focus == fieldTopic {
		topic = CursorStyle.Render("‹ " + topic + " ›")
	}
	b.WriteString(LabelStyle.Render("Topic") + topic + "\n\n")

	help := "ctrl+s: submit"
	if f.editingID != nil {
		help += " · esc: cancel edit"
	}
	if !f.Ready() {
		help = "title, text and topic required"
	}
	b.WriteString(HelpStyle.Render(help))

	if focused {
		return FocusedPanelStyle.Render(b.String())
	}
	return PanelStyle.Render(b.String())
}

func topicIndex(t model.Topic) int {
	for i, topic := range model.Topics {
		if topic == t {
			return i
		}
	}
	return -1
}
