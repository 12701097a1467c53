package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/existflow/folio/internal/apperr"
)

// Limits applied by the admin forms
const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 500
	TechnologiesMin      = 1
	TechnologiesMax      = 10
	YearMin              = 2020
	PasswordMinLength    = 6
	PasswordMaxLength    = 50
	MaxImageSize         = 5 * 1024 * 1024
)

// AllowedImageTypes are the content types accepted for project images
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var (
	urlPattern = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)

	imageExtensions = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
	}
)

// YearMax is the latest accepted project year
func YearMax() int {
	return time.Now().Year() + 1
}

// Validate checks a project form. editing relaxes the image requirement,
// since an edit keeps the stored image when none is given.
func (in ProjectInput) Validate(editing bool) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("Project title is required"),
			validation.RuneLength(TitleMinLength, TitleMaxLength).
				Error(fmt.Sprintf("Project title must be between %d and %d characters", TitleMinLength, TitleMaxLength)),
		),
		validation.Field(&in.Description,
			validation.Required.Error("Project description is required"),
			validation.RuneLength(DescriptionMinLength, DescriptionMaxLength).
				Error(fmt.Sprintf("Description must be between %d and %d characters", DescriptionMinLength, DescriptionMaxLength)),
		),
		validation.Field(&in.Technologies,
			validation.Required.Error("At least one technology must be selected"),
			validation.Length(TechnologiesMin, TechnologiesMax).
				Error(fmt.Sprintf("Maximum %d technologies can be selected", TechnologiesMax)),
			validation.Each(validation.Required.Error("technology name cannot be blank")),
		),
		validation.Field(&in.Category,
			validation.Required.Error("Category is required"),
			validation.In(categoryValues()...).Error("Unknown category"),
		),
		validation.Field(&in.Status,
			validation.By(validStatus),
		),
		validation.Field(&in.LiveURL,
			validation.Match(urlPattern).Error("Please enter a valid URL (must start with http:// or https://)"),
		),
		validation.Field(&in.GithubURL,
			validation.Match(urlPattern).Error("Please enter a valid URL (must start with http:// or https://)"),
		),
		validation.Field(&in.Year,
			validation.Required.Error("Year is required"),
			validation.By(validYear),
		),
		validation.Field(&in.Image,
			validation.When(!editing, validation.Required.Error("Project image is required")),
		),
	)
	return fieldErrors("invalid project", err)
}

// Validate checks the admin login form
func (c Credentials) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Email,
			validation.Required.Error("Email address is required"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
		validation.Field(&c.Password,
			validation.Required.Error("Password is required"),
			validation.RuneLength(PasswordMinLength, PasswordMaxLength).
				Error(fmt.Sprintf("Password must be between %d and %d characters", PasswordMinLength, PasswordMaxLength)),
		),
	)
	return fieldErrors("invalid credentials", err)
}

// Validate checks the contact form
func (m ContactMessage) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.FirstName, validation.Required.Error("First name is required"), validation.RuneLength(1, 50)),
		validation.Field(&m.LastName, validation.Required.Error("Last name is required"), validation.RuneLength(1, 50)),
		validation.Field(&m.Email,
			validation.Required.Error("Email address is required"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
		validation.Field(&m.Subject, validation.Required.Error("Subject is required"), validation.RuneLength(1, 150)),
		validation.Field(&m.Message,
			validation.Required.Error("Message is required"),
			validation.RuneLength(10, 2000).Error("Message must be between 10 and 2000 characters"),
		),
	)
	return fieldErrors("invalid message", err)
}

// ValidateImageFile checks an image before upload. An empty contentType is
// derived from the file extension.
func ValidateImageFile(name string, size int64, contentType string) error {
	if size > MaxImageSize {
		return &apperr.ValidationError{
			Message: "invalid image",
			Fields:  map[string]string{"image": fmt.Sprintf("File size must be less than %dMB", MaxImageSize/1024/1024)},
		}
	}

	if contentType == "" {
		contentType = ImageContentType(name)
	}
	for _, t := range AllowedImageTypes {
		if t == contentType {
			return nil
		}
	}
	return &apperr.ValidationError{
		Message: "invalid image",
		Fields:  map[string]string{"image": "File type not supported. Allowed types: " + strings.Join(AllowedImageTypes, ", ")},
	}
}

// ImageContentType guesses an image content type from its extension
func ImageContentType(name string) string {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

func categoryValues() []interface{} {
	out := make([]interface{}, len(Categories))
	for i, c := range Categories {
		out[i] = c
	}
	return out
}

func validStatus(value interface{}) error {
	s, _ := value.(Status)
	if s == "" || s.Valid() {
		return nil
	}
	return errors.New("Status must be one of published, draft, archived")
}

func validYear(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < YearMin || n > YearMax() {
		return fmt.Errorf("Year must be between %d-%d", YearMin, YearMax())
	}
	return nil
}

// fieldErrors converts ozzo field errors into the shared ValidationError
func fieldErrors(msg string, err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for name, fe := range errs {
		fields[name] = fe.Error()
	}
	return &apperr.ValidationError{Message: msg, Fields: fields}
}
