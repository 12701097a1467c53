package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/logger"
)

// Init restores the saved session and loads the showcase
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForChange(), m.restoreCmd(), m.loadCmd(false))
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case storeChangedMsg:
		m.syncState()
		return m, m.waitForChange()

	case refreshedMsg:
		m.syncState()
		if m.projectState.Err != nil {
			m.setError(apperr.UserMessage(m.projectState.Err))
		} else if m.message == "Refreshing..." {
			m.setMessage(fmt.Sprintf("%d projects", len(m.projectState.Projects)))
		}
		return m, nil

	case restoredMsg:
		m.syncState()
		if m.isAdmin() {
			m.setMessage(fmt.Sprintf("Logged in as %s", m.sessionState.Admin.Email))
		}
		return m, nil

	case loginDoneMsg:
		m.busy = false
		m.syncState()
		if msg.err != nil {
			m.login.setErrors(msg.err)
			m.setError("Login failed: " + apperr.UserMessage(msg.err))
			return m, nil
		}
		m.mode = ModeNormal
		m.setMessage(fmt.Sprintf("Logged in as %s", m.sessionState.Admin.Email))
		return m, nil

	case opDoneMsg:
		m.busy = false
		m.syncState()
		if msg.err != nil {
			if m.mode == ModeForm {
				m.form.setErrors(msg.err)
			}
			m.setError(fmt.Sprintf("Error: %s", apperr.UserMessage(msg.err)))
			return m, nil
		}
		m.mode = ModeNormal
		if msg.warning != "" {
			m.setError(fmt.Sprintf("%s: %q (%s)", msg.verb, msg.title, msg.warning))
		} else {
			m.setMessage(fmt.Sprintf("%s: %q", msg.verb, msg.title))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeLogin:
			return m.updateLogin(msg)
		case ModeForm:
			return m.updateForm(msg)
		case ModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// syncState copies the latest store snapshots into the model
func (m *Model) syncState() {
	m.projectState = m.deps.Projects.State()
	m.sessionState = m.deps.Session.State()
	m.refreshVisible()
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar {
			m.pane = PaneList
		} else {
			m.pane = PaneSidebar
		}

	case key.Matches(msg, keys.Left):
		m.pane = PaneSidebar

	case key.Matches(msg, keys.Right), key.Matches(msg, keys.Enter):
		m.pane = PaneList

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case msg.String() == "g":
		m.cursor = 0

	case msg.String() == "G":
		m.cursor = max(len(m.projects)-1, 0)

	case key.Matches(msg, keys.Filter):
		return m.startFilter()

	case key.Matches(msg, keys.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.refreshVisible()
			m.setMessage("Filter cleared")
		}

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Refresh):
		m.setMessage("Refreshing...")
		return m, m.loadCmd(true)

	case key.Matches(msg, keys.Login):
		return m.handleLogin()

	case key.Matches(msg, keys.Add):
		if !m.requireAdmin() {
			return m, nil
		}
		m.form = newProjectForm(nil)
		m.mode = ModeForm
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		p := m.currentProject()
		if p == nil || !m.requireAdmin() {
			return m, nil
		}
		m.form = newProjectForm(p)
		m.mode = ModeForm
		return m, textinput.Blink

	case key.Matches(msg, keys.Feature):
		p := m.currentProject()
		if p == nil || !m.requireAdmin() || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.toggleFeaturedCmd(*p)

	case key.Matches(msg, keys.Delete):
		if m.currentProject() == nil || !m.requireAdmin() {
			return m, nil
		}
		m.mode = ModeConfirmDelete
	}

	return m, nil
}

// requireAdmin reports whether admin actions are allowed, and says how to
// log in when they are not.
func (m *Model) requireAdmin() bool {
	if m.isAdmin() {
		return true
	}
	m.setError("Admin login required (press L)")
	return false
}

func (m *Model) handleUp() {
	if m.pane == PaneSidebar {
		if m.viewCursor > 0 {
			m.viewCursor--
			m.cursor = 0
			m.refreshVisible()
		}
	} else if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneSidebar {
		if m.viewCursor < len(m.views())-1 {
			m.viewCursor++
			m.cursor = 0
			m.refreshVisible()
		}
	} else if m.cursor < len(m.projects)-1 {
		m.cursor++
	}
}

func (m Model) handleLogin() (tea.Model, tea.Cmd) {
	if m.isAdmin() {
		logger.Info("Logging out from TUI")
		m.setMessage("Logged out")
		return m, m.logoutCmd()
	}
	m.login = newLoginForm()
	m.mode = ModeLogin
	return m, textinput.Blink
}

func (m Model) startFilter() (tea.Model, tea.Cmd) {
	m.mode = ModeFilter
	m.input.SetValue(m.filterText)
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.filterText = ""
		m.input.Blur()
		m.refreshVisible()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.input.Blur()
		m.pane = PaneList
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Live filtering as you type
	m.filterText = m.input.Value()
	m.cursor = 0
	m.refreshVisible()
	return m, cmd
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Submit):
		if m.login.focus < len(m.login.fields)-1 && !key.Matches(msg, keys.Submit) {
			return m, m.login.next()
		}
		if m.busy {
			return m, nil
		}
		creds := m.login.credentials()
		if err := creds.Validate(); err != nil {
			m.login.setErrors(err)
			m.setError(apperr.UserMessage(err))
			return m, nil
		}
		m.login.setErrors(nil)
		m.busy = true
		m.setMessage("Logging in...")
		return m, m.loginCmd(creds)

	case key.Matches(msg, keys.NextItem):
		return m, m.login.next()

	case key.Matches(msg, keys.PrevItem):
		return m, m.login.prev()
	}

	return m, m.login.update(msg)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.setMessage("Cancelled")
		return m, nil

	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, keys.Submit):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setMessage("Saving...")
		return m, m.saveCmd(m.form)

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.NextItem):
		return m, m.form.next()

	case key.Matches(msg, keys.PrevItem):
		return m, m.form.prev()
	}

	return m, m.form.update(msg)
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.currentProject()
	switch msg.String() {
	case "y", "Y":
		if p == nil || m.busy {
			m.mode = ModeNormal
			return m, nil
		}
		m.busy = true
		m.mode = ModeNormal
		m.setMessage(fmt.Sprintf("Deleting %q...", p.Title))
		return m, m.deleteCmd(*p)
	default:
		m.mode = ModeNormal
		m.setMessage("Delete cancelled")
	}
	return m, nil
}

// loading reports whether a background request is in flight
func (m Model) loading() bool {
	return m.busy || m.projectState.Loading() || m.sessionState.Loading()
}
