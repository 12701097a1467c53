package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/folio/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Build the layout
	sidebar := m.renderSidebar()
	list := m.renderProjectList()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, list)

	var modal string
	switch m.mode {
	case ModeLogin:
		modal = m.renderLoginModal()
	case ModeForm:
		modal = m.renderFormModal()
	case ModeConfirmDelete:
		modal = m.renderConfirmModal()
	case ModeHelp:
		mainContent = m.renderHelp()
	}
	if modal != "" {
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	// Combine with status bar
	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) renderSidebar() string {
	sidebarWidth := 22
	var s string

	s += HeaderStyle.Render("Folio") + "\n"
	if m.isAdmin() {
		s += HelpStyle.Render(truncate(m.sessionState.Admin.Email, sidebarWidth-2)) + "\n"
	} else {
		s += HelpStyle.Render("visitor") + "\n"
	}
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", sidebarWidth-4)) + "\n\n"

	for i, v := range m.views() {
		cursor := "  "
		style := ViewItemStyle
		if i == m.viewCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ViewItemSelectedStyle
			}
		}
		line := fmt.Sprintf("%s%-14s %2d", cursor, truncate(v.name, 14), m.countView(v))
		s += style.Render(line) + "\n"
	}

	stats := m.deps.Projects.Stats()
	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render(repeat("─", sidebarWidth-4)) + "\n"
	s += HelpStyle.Render(fmt.Sprintf("%d techs", stats.Technologies)) + "\n"
	if m.isAdmin() {
		s += HelpStyle.Render("a add  L logout")
	} else {
		s += HelpStyle.Render("L admin login")
	}

	return SidebarStyle.Width(sidebarWidth).Height(m.height - 2).Render(s)
}

func (m Model) countView(v view) int {
	n := 0
	for _, p := range m.projectState.Projects {
		if v.featured && !p.Featured {
			continue
		}
		if v.category != "" && p.Category != v.category {
			continue
		}
		n++
	}
	return n
}

func (m Model) renderProjectList() string {
	width := m.width - 24
	var s string

	header := m.currentView().name
	if len([]rune(m.filterText)) >= 3 {
		header = fmt.Sprintf("%s  /%s", header, m.filterText)
	}
	if m.loading() {
		header += " " + m.spinner.View()
	}
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", width-4)) + "\n\n"

	if len(m.projects) == 0 {
		switch {
		case m.projectState.Loading():
			s += HelpStyle.Render("  Loading projects...")
		case m.projectState.Err != nil:
			s += ErrorStyle.Render("  Could not load projects. Press 'r' to retry.")
		case m.filterText != "":
			s += HelpStyle.Render("  No projects match your search.")
		default:
			s += HelpStyle.Render("  No projects yet.")
		}
		return ListStyle.Width(width).Height(m.height - 2).Render(s)
	}

	for i, p := range m.projects {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor && m.pane == PaneList {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		star := " "
		if p.Featured {
			star = StarStyle.Render("★")
		}

		title := truncate(p.Title, max(width-34, 10))
		line := style.Render(fmt.Sprintf("%s%-*s %4s ", cursor, max(width-34, 10), title, p.Year))
		s += line + star + " " + FormatStatus(p.Status) + "\n"
	}

	if p := m.currentProject(); p != nil {
		s += "\n" + m.renderDetail(*p, width-6)
	}

	return ListStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderDetail(p model.Project, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(p.Title) + "\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("%s · %s", p.Category, p.Year)) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(p.Description) + "\n\n")
	b.WriteString(TechStyle.Render(strings.Join(p.Technologies, " · ")) + "\n")
	if p.LiveURL != "" {
		b.WriteString(HelpStyle.Render("live   ") + p.LiveURL + "\n")
	}
	if p.GithubURL != "" {
		b.WriteString(HelpStyle.Render("github ") + p.GithubURL + "\n")
	}
	b.WriteString(HelpStyle.Render("image  ") + model.ImageURL(p.Image))
	return DetailStyle.Width(width).Render(b.String())
}

func (m Model) renderStatusBar() string {
	// When in filter mode, show inline search input (like vim)
	if m.mode == ModeFilter {
		matches := ""
		if n := len([]rune(m.filterText)); n > 0 && n < 3 {
			matches = " [type 3+ characters]"
		} else if n >= 3 {
			matches = fmt.Sprintf(" [%d matches]", len(m.projects))
		}
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View() + matches)
	}

	help := "/:search  tab:pane  r:refresh  ?:help  q:quit  L:login"
	if m.isAdmin() {
		help = "/:search  a:add  e:edit  f:feature  d:del  r:refresh  ?:help  q:quit  L:logout"
	}
	if m.message != "" {
		if m.isError {
			return StatusBarStyle.Width(m.width).Render(ErrorStyle.Render(m.message))
		}
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderFields(f form) string {
	var s string
	for i, fd := range f.fields {
		label := LabelStyle.Render(fd.label)
		if i == f.focus {
			label = FocusedLabelStyle.Render(fd.label)
		}
		s += label + fd.input.View() + "\n"
		if msg := f.errors[fd.key]; msg != "" {
			s += LabelStyle.Render("") + ErrorStyle.Render(msg) + "\n"
		}
	}
	return s
}

func (m Model) renderLoginModal() string {
	content := lipgloss.NewStyle().Bold(true).Render("Admin Login") + "\n\n"
	content += m.renderFields(m.login.form) + "\n"
	if m.busy {
		content += m.spinner.View() + " Logging in...\n"
	}
	content += HelpStyle.Render("Enter:next/submit  Tab:next field  Esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderFormModal() string {
	title := "New Project"
	if m.form.editing() {
		title = "Edit Project"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.renderFields(m.form.form) + "\n"
	content += HelpStyle.Render("Categories: "+joinCategories()) + "\n"
	if m.busy {
		content += m.spinner.View() + " Saving...\n"
	}
	content += HelpStyle.Render("Ctrl+S:save  Tab/Enter:next field  Esc:cancel")
	return ModalStyle.Render(content)
}

func joinCategories() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func (m Model) renderConfirmModal() string {
	p := m.currentProject()
	if p == nil {
		return ""
	}
	content := lipgloss.NewStyle().Bold(true).Foreground(ErrorColor).Render("Delete project?") + "\n\n"
	content += fmt.Sprintf("%q will be removed permanently.", p.Title) + "\n\n"
	content += HelpStyle.Render("y:delete  any other key:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderHelp() string {
	help := `
  Folio - Portfolio Projects

  Navigation
    j/k, ↑/↓      Move up/down
    h/l, ←/→      Switch between views and projects
    tab           Switch pane
    g/G           First/last project

  Browsing
    /             Search (3+ characters, live)
    esc           Clear search
    r             Refresh from the server

  Admin
    L             Log in / log out
    a             Add project
    e             Edit project
    f             Toggle featured
    d             Delete project
    ctrl+s        Save form

  General
    ?             Show this help
    q             Quit

  Press any key to close
`
	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(help)
}
