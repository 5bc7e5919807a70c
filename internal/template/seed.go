package template

import "time"

// DefaultTemplates returns the seed catalog used when the store holds
// no templates yet.
func DefaultTemplates() []Template {
	return []Template{
		{
			ID:           "tpl-001",
			Name:         "Modern Landing Page",
			Description:  "A clean, modern landing page with hero section, features, and contact form.",
			Category:     "landing-pages",
			Tags:         []string{"modern", "responsive", "hero", "contact-form"},
			Technologies: []string{"HTML", "CSS", "JavaScript"},
			Difficulty:   DifficultyEasy,
			Preview:      "assets/images/landing-page-preview.svg",
			Files:        []string{"index.html"},
			Size:         "45 KB",
			Downloads:    1567,
			Rating:       4.8,
			Author:       "TemplateHub",
			Featured:     true,
			CDNURL:       "https://cdn.templatehub.com/landing-pages/modern/",
			DemoURL:      "templates/landing-pages/modern-landing/index.html",
			CreatedAt:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:           "tpl-009",
			Name:         "Startup Landing Page",
			Description:  "Professional startup landing page with investor pitch sections and team showcase.",
			Category:     "landing-pages",
			Tags:         []string{"startup", "business", "pitch", "team", "responsive"},
			Technologies: []string{"HTML", "CSS", "JavaScript"},
			Difficulty:   DifficultyMedium,
			Preview:      "assets/images/landing-page-preview.svg",
			Files:        []string{"index.html"},
			Size:         "67 KB",
			Downloads:    923,
			Rating:       4.7,
			Author:       "TemplateHub",
			CDNURL:       "https://cdn.templatehub.com/landing-pages/startup/",
			DemoURL:      "templates/landing-pages/startup-landing/index.html",
			CreatedAt:    time.Date(2025, 1, 7, 11, 15, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 7, 11, 15, 0, 0, time.UTC),
		},
		{
			ID:           "tpl-002",
			Name:         "Minimal Login Form",
			Description:  "Simple and elegant login form with validation and social login options.",
			Category:     "login-forms",
			Tags:         []string{"minimal", "validation", "social-login"},
			Technologies: []string{"HTML", "CSS", "JavaScript"},
			Difficulty:   DifficultyEasy,
			Preview:      "assets/images/login-form-preview.svg",
			Files:        []string{"index.html"},
			Size:         "28 KB",
			Downloads:    2341,
			Rating:       4.6,
			Author:       "TemplateHub",
			Featured:     true,
			CDNURL:       "https://cdn.templatehub.com/login-forms/minimal/",
			DemoURL:      "templates/login-forms/minimal-login/index.html",
			CreatedAt:    time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:           "tpl-004",
			Name:         "Product Showcase",
			Description:  "E-commerce product grid with filtering, cart preview, and checkout flow.",
			Category:     "ecommerce",
			Tags:         []string{"products", "cart", "checkout", "responsive"},
			Technologies: []string{"HTML", "CSS", "JavaScript"},
			Difficulty:   DifficultyHard,
			Preview:      "assets/images/ecommerce-preview.svg",
			Files:        []string{"index.html"},
			Size:         "112 KB",
			Downloads:    1102,
			Rating:       4.9,
			Author:       "TemplateHub",
			CDNURL:       "https://cdn.templatehub.com/ecommerce/showcase/",
			DemoURL:      "templates/ecommerce/product-showcase/index.html",
			CreatedAt:    time.Date(2025, 1, 10, 14, 45, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 10, 14, 45, 0, 0, time.UTC),
		},
		{
			ID:           "tpl-006",
			Name:         "Analytics Dashboard",
			Description:  "Admin dashboard with charts, stat cards, and a responsive sidebar layout.",
			Category:     "dashboards",
			Tags:         []string{"admin", "charts", "stats", "sidebar"},
			Technologies: []string{"HTML", "CSS", "JavaScript"},
			Difficulty:   DifficultyMedium,
			Preview:      "assets/images/dashboard-preview.svg",
			Files:        []string{"index.html"},
			Size:         "89 KB",
			Downloads:    756,
			Rating:       4.5,
			Author:       "TemplateHub",
			CDNURL:       "https://cdn.templatehub.com/dashboards/analytics/",
			DemoURL:      "templates/dashboards/analytics-dashboard/index.html",
			CreatedAt:    time.Date(2025, 1, 5, 16, 20, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2025, 1, 5, 16, 20, 0, 0, time.UTC),
		},
	}
}

// DefaultCategories returns the seed categories used when the store
// holds no categories yet.
func DefaultCategories() []Category {
	return []Category{
		{
			ID:          "landing-pages",
			Name:        "Landing Pages",
			Description: "Professional landing pages for businesses and products",
			Icon:        "layout",
			Color:       "#3b82f6",
		},
		{
			ID:          "login-forms",
			Name:        "Login Forms",
			Description: "Authentication interfaces and login pages",
			Icon:        "log-in",
			Color:       "#10b981",
		},
		{
			ID:          "registration-forms",
			Name:        "Registration Forms",
			Description: "Sign-up forms and user registration pages",
			Icon:        "user-plus",
			Color:       "#f59e0b",
		},
		{
			ID:          "ecommerce",
			Name:        "E-commerce",
			Description: "Shopping carts, product displays, and store layouts",
			Icon:        "shopping-cart",
			Color:       "#ef4444",
		},
		{
			ID:          "dashboards",
			Name:        "Dashboards",
			Description: "Admin panels and analytics dashboards",
			Icon:        "bar-chart",
			Color:       "#8b5cf6",
		},
	}
}
