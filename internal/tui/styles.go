package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/folio/internal/model"
)

// Color palette
var (
	// Status colors
	Completed  = lipgloss.Color("#95E1A3") // Green
	InProgress = lipgloss.Color("#FFE66D") // Yellow
	Archived   = lipgloss.Color("#6C757D") // Gray
	ErrorColor = lipgloss.Color("#FF6B6B") // Red
	Star       = lipgloss.Color("#FFB347") // Orange

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Secondary  = lipgloss.Color("#6C757D")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
)

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			Width(24).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	// Project list
	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Sidebar item
	ViewItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ViewItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Project item
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	// Detail panel
	DetailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border).
			Padding(1, 1)

	TechStyle = lipgloss.NewStyle().
			Foreground(Primary)

	StarStyle = lipgloss.NewStyle().Foreground(Star).Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	SpinnerStyle = lipgloss.NewStyle().Foreground(Primary)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Width(14).
			Foreground(TextMuted)

	FocusedLabelStyle = LabelStyle.
				Foreground(Primary).
				Bold(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// StatusStyle returns the badge style for a project status
func StatusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusPublished:
		return lipgloss.NewStyle().Foreground(Completed)
	case model.StatusDraft:
		return lipgloss.NewStyle().Foreground(InProgress)
	default:
		return lipgloss.NewStyle().Foreground(Archived)
	}
}

// FormatStatus returns a colored status label
func FormatStatus(s model.Status) string {
	return StatusStyle(s).Render(s.Label())
}
