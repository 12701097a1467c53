package model

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/folio/internal/apperr"
)

func validInput() ProjectInput {
	return ProjectInput{
		Title:        "Portfolio",
		Description:  "A personal portfolio site",
		Technologies: []string{"Go"},
		Category:     CategoryWeb,
		Status:       StatusPublished,
		LiveURL:      "https://example.com",
		Year:         "2024",
		Image:        "/uploads/shot.png",
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}

func TestProjectInput_Validate(t *testing.T) {
	require.NoError(t, validInput().Validate(false))

	tests := []struct {
		name  string
		edit  func(*ProjectInput)
		field string
	}{
		{"short title", func(in *ProjectInput) { in.Title = "ab" }, "title"},
		{"long description", func(in *ProjectInput) { in.Description = strings.Repeat("x", 501) }, "description"},
		{"no technologies", func(in *ProjectInput) { in.Technologies = nil }, "technologies"},
		{"too many technologies", func(in *ProjectInput) { in.Technologies = strings.Split("a,b,c,d,e,f,g,h,i,j,k", ",") }, "technologies"},
		{"unknown category", func(in *ProjectInput) { in.Category = "Cooking" }, "category"},
		{"bad status", func(in *ProjectInput) { in.Status = "shipped" }, "status"},
		{"bad url", func(in *ProjectInput) { in.LiveURL = "example.com" }, "liveUrl"},
		{"bad github url", func(in *ProjectInput) { in.GithubURL = "ftp://x" }, "githubUrl"},
		{"old year", func(in *ProjectInput) { in.Year = "2019" }, "year"},
		{"future year", func(in *ProjectInput) { in.Year = strconv.Itoa(YearMax() + 1) }, "year"},
		{"no image", func(in *ProjectInput) { in.Image = "" }, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.edit(&in)
			err := in.Validate(false)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestProjectInput_Validate_EditKeepsImage(t *testing.T) {
	in := validInput()
	in.Image = ""
	assert.NoError(t, in.Validate(true))
}

func TestCredentials_Validate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "admin@example.com", Password: "secret1"}.Validate())

	fields := fieldsOf(t, Credentials{Email: "nope", Password: "123"}.Validate())
	assert.Equal(t, "Please enter a valid email address", fields["email"])
	assert.Contains(t, fields, "password")
}

func TestContactMessage_Validate(t *testing.T) {
	msg := ContactMessage{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Subject: "Hi", Message: "short"}
	assert.Contains(t, fieldsOf(t, msg.Validate()), "message")

	msg.Message = "Long enough to be sent."
	assert.NoError(t, msg.Validate())
}

func TestValidateImageFile(t *testing.T) {
	assert.NoError(t, ValidateImageFile("shot.PNG", 1024, ""))
	assert.ErrorIs(t, ValidateImageFile("shot.png", MaxImageSize+1, ""), apperr.ErrValidation)
	assert.ErrorIs(t, ValidateImageFile("notes.txt", 10, ""), apperr.ErrValidation)
	assert.NoError(t, ValidateImageFile("blob", 10, "image/webp"))
}
