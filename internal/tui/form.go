package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/folio/internal/apperr"
	"github.com/existflow/folio/internal/model"
)

// field is one labelled input in a form
type field struct {
	label string
	key   string // validation field name
	input textinput.Model
}

func newField(label, key, placeholder string, limit int) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	return field{label: label, key: key, input: ti}
}

// form is a vertical list of fields with a single focused entry
type form struct {
	fields []field
	focus  int
	errors map[string]string // per-field validation messages
}

func (f *form) focusField(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = (i + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *form) next() tea.Cmd { return f.focusField(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.focusField(f.focus - 1) }

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// setErrors shows the field messages of a validation error, or clears
// them when err carries none.
func (f *form) setErrors(err error) {
	f.errors = nil
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		f.errors = verr.Fields
	}
}

// loginForm collects admin credentials
type loginForm struct {
	form
}

func newLoginForm() loginForm {
	email := newField("Email", "email", "admin@example.com", 254)
	password := newField("Password", "password", "", 128)
	password.input.EchoMode = textinput.EchoPassword
	password.input.EchoCharacter = '•'

	f := loginForm{form{fields: []field{email, password}}}
	f.focusField(0)
	return f
}

func (f loginForm) credentials() model.Credentials {
	return model.Credentials{
		Email:    f.value(0),
		Password: f.fields[1].input.Value(),
	}
}

// Project form field order
const (
	fieldTitle = iota
	fieldDescription
	fieldTechnologies
	fieldCategory
	fieldStatus
	fieldYear
	fieldLiveURL
	fieldGithubURL
	fieldImage
	fieldFeatured
)

// projectForm edits the writable fields of a project. id is empty when
// creating.
type projectForm struct {
	form
	id string
}

func newProjectForm(p *model.Project) projectForm {
	fields := []field{
		newField("Title", "title", "My project", model.TitleMaxLength),
		newField("Description", "description", "What it does", model.DescriptionMaxLength),
		newField("Technologies", "technologies", "Go, PostgreSQL", 256),
		newField("Category", "category", string(model.DefaultCategory), 32),
		newField("Status", "status", "published | draft | archived", 16),
		newField("Year", "year", "2024", 4),
		newField("Live URL", "liveUrl", "https://", 512),
		newField("GitHub URL", "githubUrl", "https://github.com/", 512),
		newField("Image", "image", "URL or local file", 512),
		newField("Featured", "featured", "yes / no", 3),
	}

	f := projectForm{form: form{fields: fields}}
	if p != nil {
		f.id = p.ID
		in := p.Input()
		f.fields[fieldTitle].input.SetValue(in.Title)
		f.fields[fieldDescription].input.SetValue(in.Description)
		f.fields[fieldTechnologies].input.SetValue(strings.Join(in.Technologies, ", "))
		f.fields[fieldCategory].input.SetValue(string(in.Category))
		f.fields[fieldStatus].input.SetValue(string(in.Status))
		f.fields[fieldYear].input.SetValue(in.Year)
		f.fields[fieldLiveURL].input.SetValue(in.LiveURL)
		f.fields[fieldGithubURL].input.SetValue(in.GithubURL)
		f.fields[fieldImage].input.SetValue(in.Image)
		if in.Featured {
			f.fields[fieldFeatured].input.SetValue("yes")
		} else {
			f.fields[fieldFeatured].input.SetValue("no")
		}
	}
	f.focusField(0)
	return f
}

func (f projectForm) editing() bool {
	return f.id != ""
}

// input converts the form into a project input. Unknown category or
// status text is passed through so validation reports it.
func (f projectForm) input() model.ProjectInput {
	in := model.ProjectInput{
		Title:        f.value(fieldTitle),
		Description:  f.value(fieldDescription),
		Technologies: model.SplitTechnologies(f.value(fieldTechnologies)),
		Year:         f.value(fieldYear),
		LiveURL:      f.value(fieldLiveURL),
		GithubURL:    f.value(fieldGithubURL),
		Image:        f.value(fieldImage),
	}

	if c := f.value(fieldCategory); c != "" {
		if parsed, err := model.ParseCategory(c); err == nil {
			in.Category = parsed
		} else {
			in.Category = model.Category(c)
		}
	}
	if s := f.value(fieldStatus); s != "" {
		if parsed, err := model.ParseStatus(s); err == nil {
			in.Status = parsed
		} else {
			in.Status = model.Status(s)
		}
	}

	switch strings.ToLower(f.value(fieldFeatured)) {
	case "y", "yes", "true", "1":
		in.Featured = true
	}
	return in
}
