package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, focus
	SuccessColor = lipgloss.Color("#43BF6D") // Green - status message
	ErrorColor   = lipgloss.Color("#FF5555") // Red - delete hints
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	NavActiveStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1)

	NavInactiveStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Padding(0, 1)

	MessageStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(PrimaryColor)

	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(8)

	ArticleTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true)

	ArticleMetaStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Italic(true)

	CursorStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// DimStyle fades the page while a request is in flight.
	DimStyle = lipgloss.NewStyle().
			Faint(true)
)
