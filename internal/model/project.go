package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PlaceholderImage is shown when a project has no image, and is what a
// failed upload falls back to.
const PlaceholderImage = "/images/placeholder-project.jpg"

// Status is the storage-level project state
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusArchived  Status = "archived"
)

// Statuses lists the valid storage values in display order
var Statuses = []Status{StatusPublished, StatusDraft, StatusArchived}

// Label returns the human label shown to visitors. Unknown values are
// returned unchanged.
func (s Status) Label() string {
	switch s {
	case StatusPublished:
		return "Completed"
	case StatusDraft:
		return "In Progress"
	case StatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the storage values
func (s Status) Valid() bool {
	switch s {
	case StatusPublished, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// ParseStatus accepts a storage value or a display label, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "published", "completed":
		return StatusPublished, nil
	case "draft", "in progress", "in-progress":
		return StatusDraft, nil
	case "archived":
		return StatusArchived, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Category groups projects on the showcase
type Category string

const (
	CategoryWeb      Category = "Web Development"
	CategoryMobile   Category = "Mobile Development"
	CategoryAI       Category = "AI/ML"
	CategoryChain    Category = "Blockchain"
	CategoryDesktop  Category = "Desktop Application"
	CategoryGame     Category = "Game Development"
	CategoryData     Category = "Data Science"
	CategoryDevOps   Category = "DevOps"
	DefaultCategory           = CategoryWeb
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryWeb, CategoryMobile, CategoryAI, CategoryChain,
	CategoryDesktop, CategoryGame, CategoryData, CategoryDevOps,
}

// ParseCategory matches a category name case-insensitively
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Project is one portfolio entry as returned by the backend
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	Category     Category  `json:"category"`
	Status       Status    `json:"status"`
	LiveURL      string    `json:"liveUrl,omitempty"`
	GithubURL    string    `json:"githubUrl,omitempty"`
	Featured     bool      `json:"featured"`
	Year         string    `json:"year"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts both "id" and "_id", a numeric or string year,
// and display labels for status.
func (p *Project) UnmarshalJSON(data []byte) error {
	type plain Project
	var raw struct {
		plain
		MongoID   string          `json:"_id"`
		Year      json.RawMessage `json:"year"`
		ID        json.RawMessage `json:"id"`
		CreatedAt flexTime        `json:"createdAt"`
		UpdatedAt flexTime        `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Project(raw.plain)
	p.ID = rawString(raw.ID)
	if p.ID == "" {
		p.ID = raw.MongoID
	}
	p.Year = rawString(raw.Year)
	p.CreatedAt = time.Time(raw.CreatedAt)
	p.UpdatedAt = time.Time(raw.UpdatedAt)

	if !p.Status.Valid() {
		if st, err := ParseStatus(string(p.Status)); err == nil {
			p.Status = st
		}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return nil
}

// rawString reads a JSON string or number as a string
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// flexTime tolerates missing, empty and non-RFC3339 timestamps
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	s := rawString(data)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = flexTime(time.UnixMilli(ms))
	}
	return nil
}

// SortTime is the timestamp used for newest-first ordering
func (p Project) SortTime() time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	return p.UpdatedAt
}

// Input returns the writable fields of p, for full-replace edits
func (p Project) Input() ProjectInput {
	techs := make([]string, len(p.Technologies))
	copy(techs, p.Technologies)
	return ProjectInput{
		Title:        p.Title,
		Description:  p.Description,
		Technologies: techs,
		Category:     p.Category,
		Status:       p.Status,
		LiveURL:      p.LiveURL,
		GithubURL:    p.GithubURL,
		Featured:     p.Featured,
		Year:         p.Year,
		Image:        p.Image,
	}
}

// HasTechnology reports a case-insensitive substring match against any
// technology of p.
func (p Project) HasTechnology(name string) bool {
	needle := strings.ToLower(name)
	for _, t := range p.Technologies {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// ProjectInput holds the fields a client may write. Server-assigned fields
// have no place here, so they can never be sent.
type ProjectInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Category     Category `json:"category"`
	Status       Status   `json:"status"`
	LiveURL      string   `json:"liveUrl"`
	GithubURL    string   `json:"githubUrl"`
	Featured     bool     `json:"featured"`
	Year         string   `json:"year"`
	Image        string   `json:"image,omitempty"`
}

// Normalize trims text fields, drops empty technologies and fills the
// category and status defaults the admin form starts with.
func (in ProjectInput) Normalize() ProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.LiveURL = strings.TrimSpace(in.LiveURL)
	in.GithubURL = strings.TrimSpace(in.GithubURL)
	in.Year = strings.TrimSpace(in.Year)
	in.Image = strings.TrimSpace(in.Image)

	techs := make([]string, 0, len(in.Technologies))
	for _, t := range in.Technologies {
		if t = strings.TrimSpace(t); t != "" {
			techs = append(techs, t)
		}
	}
	in.Technologies = techs

	if in.Category == "" {
		in.Category = DefaultCategory
	}
	if in.Status == "" {
		in.Status = StatusPublished
	} else if st, err := ParseStatus(string(in.Status)); err == nil {
		in.Status = st
	}
	return in
}

// SplitTechnologies parses the comma separated list used by the forms
func SplitTechnologies(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ImageURL resolves a stored image reference for display. The placeholder
// is applied here only, never written back.
func ImageURL(image string) string {
	switch {
	case image == "":
		return PlaceholderImage
	case strings.HasPrefix(image, "http"), strings.HasPrefix(image, "data:image/"), strings.HasPrefix(image, "/images/"):
		return image
	default:
		return "/images/" + strings.TrimPrefix(image, "/")
	}
}
