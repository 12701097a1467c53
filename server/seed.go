package server

import (
	"time"

	"github.com/existflow/folio/internal/model"
)

// SeedProjects is the showcase a fresh backend starts with
func SeedProjects() []model.Project {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}
	seed := []model.Project{
		{
			Title:        "Money Guard",
			Description:  "Personal finance tracker with expense tracking, budget management and an analytics dashboard.",
			Technologies: []string{"React", "Swagger", "Module CSS", "Figma"},
			Category:     model.CategoryWeb,
			Status:       model.StatusPublished,
			Featured:     true,
			Year:         "2025",
			CreatedAt:    day(2025, time.March, 2),
		},
		{
			Title:        "TMDB Clone",
			Description:  "Server rendered catalogue for discovering movies and TV shows with search, filtering and detail pages.",
			Technologies: []string{"React", "Next.js", "Tailwind CSS", "Docker"},
			Category:     model.CategoryWeb,
			Status:       model.StatusPublished,
			Featured:     true,
			Year:         "2025",
			CreatedAt:    day(2025, time.January, 18),
		},
		{
			Title:        "Portfolio Website",
			Description:  "Responsive portfolio with smooth animations, dark mode and an admin panel for managing projects.",
			Technologies: []string{"React", "Tailwind CSS", "Framer Motion", "Vite"},
			Category:     model.CategoryWeb,
			Status:       model.StatusPublished,
			Featured:     true,
			Year:         "2024",
			CreatedAt:    day(2024, time.November, 5),
		},
		{
			Title:        "AI Image Generator",
			Description:  "Generates images from text prompts through a hosted model API.",
			Technologies: []string{"React", "Node.js", "AI API", "Tailwind CSS"},
			Category:     model.CategoryAI,
			Status:       model.StatusPublished,
			Year:         "2024",
			CreatedAt:    day(2024, time.August, 21),
		},
		{
			Title:        "Focus Frame",
			Description:  "Pomodoro style focus timer with session history and configurable breaks.",
			Technologies: []string{"JavaScript", "HTML", "CSS"},
			Category:     model.CategoryWeb,
			Status:       model.StatusDraft,
			Year:         "2023",
			CreatedAt:    day(2023, time.June, 9),
		},
	}
	for i := range seed {
		seed[i].UpdatedAt = seed[i].CreatedAt
	}
	return seed
}
