package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	Primary   = lipgloss.Color("#FF9900") // Amber
	Secondary = lipgloss.Color("#99CCFF") // Pale blue
	Success   = lipgloss.Color("#10B981") // Green
	Error     = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Selected  = lipgloss.Color("#4F46E5") // Indigo
)

// Styles
var (
	AppStyle = lipgloss.NewStyle().
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1)

	CategoryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Secondary).
			MarginTop(1)

	ItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(Selected).
				Foreground(lipgloss.Color("#F9FAFB"))

	DescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	OnlineStyle = lipgloss.NewStyle().
			Foreground(Success)

	OfflineStyle = lipgloss.NewStyle().
			Foreground(Error)

	UnknownStyle = lipgloss.NewStyle().
			Foreground(Muted)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1)

	StatusTextStyle = lipgloss.NewStyle().
			Foreground(Primary)
)

// Status glyphs
var (
	GlyphOnline  = OnlineStyle.Render("●")
	GlyphOffline = OfflineStyle.Render("✗")
	GlyphUnknown = UnknownStyle.Render("○")
)
