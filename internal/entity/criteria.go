package entity

import (
	"fmt"
	"strings"
)

// ContentCriteria are the acceptance rules for user-submitted posts.
type ContentCriteria struct {
	MinTitleLength    int
	MaxTitleLength    int
	MinContentLength  int
	MaxContentLength  int
	BannedWords       []string
	AllowedCategories []string
}

var DefaultCriteria = ContentCriteria{
	MinTitleLength:   10,
	MaxTitleLength:   100,
	MinContentLength: 100,
	MaxContentLength: 10000,
	BannedWords:      []string{"spam", "scam", "hack", "inappropriate"},
	AllowedCategories: []string{
		"business", "technology", "science", "health", "entertainment",
		"sports", "politics", "world", "lifestyle", "education",
	},
}

// ValidationError lists every rule a submission broke.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "content validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate returns nil when the submission satisfies every rule.
func (c ContentCriteria) Validate(title, content, category string) error {
	var problems []string

	for _, field := range []struct{ name, value string }{
		{"title", title}, {"content", content}, {"category", category},
	} {
		if field.value == "" {
			problems = append(problems, "Missing required field: "+field.name)
		}
	}

	if title != "" {
		n := len([]rune(title))
		if n < c.MinTitleLength {
			problems = append(problems, fmt.Sprintf("Title too short (minimum %d characters)", c.MinTitleLength))
		}
		if n > c.MaxTitleLength {
			problems = append(problems, fmt.Sprintf("Title too long (maximum %d characters)", c.MaxTitleLength))
		}
	}

	if content != "" {
		n := len([]rune(content))
		if n < c.MinContentLength {
			problems = append(problems, fmt.Sprintf("Content too short (minimum %d characters)", c.MinContentLength))
		}
		if n > c.MaxContentLength {
			problems = append(problems, fmt.Sprintf("Content too long (maximum %d characters)", c.MaxContentLength))
		}
		lower := strings.ToLower(content)
		for _, word := range c.BannedWords {
			if strings.Contains(lower, strings.ToLower(word)) {
				problems = append(problems, "Content contains banned word: "+word)
			}
		}
	}

	if category != "" && !c.categoryAllowed(category) {
		problems = append(problems, fmt.Sprintf("Invalid category: %s. Allowed categories: %s",
			category, strings.Join(c.AllowedCategories, ", ")))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (c ContentCriteria) categoryAllowed(category string) bool {
	lower := strings.ToLower(category)
	for _, allowed := range c.AllowedCategories {
		if allowed == lower {
			return true
		}
	}
	return false
}
