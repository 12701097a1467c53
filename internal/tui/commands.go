package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/folio/internal/api"
	"github.com/existflow/folio/internal/model"
)

// storeChangedMsg is sent when either store publishes a new state
type storeChangedMsg struct{}

// refreshedMsg is sent when a load or logout has finished
type refreshedMsg struct{}

// restoredMsg is sent once the saved session has been checked
type restoredMsg struct{}

// loginDoneMsg carries the outcome of a login attempt
type loginDoneMsg struct {
	err error
}

// opDoneMsg carries the outcome of a project mutation
type opDoneMsg struct {
	verb    string
	title   string
	warning string
	err     error
}

// waitForChange listens for store change signals
func (m Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return storeChangedMsg{}
	}
}

func (m Model) loadCmd(force bool) tea.Cmd {
	projects := m.deps.Projects
	return func() tea.Msg {
		if force {
			projects.Refresh(context.Background())
		} else {
			projects.Load(context.Background())
		}
		return refreshedMsg{}
	}
}

func (m Model) restoreCmd() tea.Cmd {
	session := m.deps.Session
	return func() tea.Msg {
		session.Restore(context.Background())
		return restoredMsg{}
	}
}

func (m Model) loginCmd(c model.Credentials) tea.Cmd {
	session := m.deps.Session
	return func() tea.Msg {
		return loginDoneMsg{err: session.Login(context.Background(), c.Email, c.Password)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	session := m.deps.Session
	return func() tea.Msg {
		_ = session.Logout(context.Background())
		return refreshedMsg{}
	}
}

// saveCmd validates the form, uploads a local image file if one was given
// and then adds or updates the project.
func (m Model) saveCmd(f projectForm) tea.Cmd {
	projects := m.deps.Projects
	uploader := m.deps.Gateway
	editing := f.editing()
	in := f.input()

	return func() tea.Msg {
		ctx := context.Background()
		if err := in.Normalize().Validate(editing); err != nil {
			return opDoneMsg{verb: "Saved", title: in.Title, err: err}
		}

		var warning string
		if uploader != nil && api.IsLocalFile(in.Image) {
			url, err := uploader.UploadFile(ctx, in.Image)
			if err != nil {
				if url == "" {
					return opDoneMsg{verb: "Saved", title: in.Title, err: err}
				}
				warning = "image upload failed, using placeholder"
			}
			in.Image = url
		}

		if editing {
			_, err := projects.Update(ctx, f.id, in)
			return opDoneMsg{verb: "Updated", title: in.Title, warning: warning, err: err}
		}
		_, err := projects.Add(ctx, in)
		return opDoneMsg{verb: "Added", title: in.Title, warning: warning, err: err}
	}
}

func (m Model) deleteCmd(p model.Project) tea.Cmd {
	projects := m.deps.Projects
	return func() tea.Msg {
		err := projects.Remove(context.Background(), p.ID)
		return opDoneMsg{verb: "Deleted", title: p.Title, err: err}
	}
}

func (m Model) toggleFeaturedCmd(p model.Project) tea.Cmd {
	projects := m.deps.Projects
	return func() tea.Msg {
		in := p.Input()
		in.Featured = !p.Featured
		verb := "Featured"
		if !in.Featured {
			verb = "Unfeatured"
		}
		_, err := projects.Update(context.Background(), p.ID, in)
		return opDoneMsg{verb: verb, title: p.Title, err: err}
	}
}
