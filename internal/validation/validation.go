// Package validation holds the input rules for profile and post fields.
package validation

import (
	"regexp"
	"strings"

	"simmr/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

const (
	UsernameMinLen    = 3
	UsernameMaxLen    = 50
	DisplayNameMaxLen = 100
	TitleMaxLen       = 200
)

// NormalizeUsername lowercases and trims a username before validation or lookup.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Username validates a normalized username.
func Username(username string) error {
	if len(username) < UsernameMinLen {
		return models.NewValidationError("Username must be at least 3 characters.")
	}
	if len(username) > UsernameMaxLen {
		return models.NewValidationError("Username must be at most 50 characters.")
	}
	if !usernamePattern.MatchString(username) {
		return models.NewValidationError("Username may only contain lowercase letters, numbers, and underscores.")
	}
	return nil
}

// DisplayName validates a display name.
func DisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("Display name is required.")
	}
	if len(name) > DisplayNameMaxLen {
		return models.NewValidationError("Display name must be at most 100 characters.")
	}
	return nil
}

// PostTitle validates a dish title.
func PostTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.NewValidationError("Title is required.")
	}
	if len(title) > TitleMaxLen {
		return models.NewValidationError("Title must be at most 200 characters.")
	}
	return nil
}

// Difficulty validates an optional difficulty value. Empty is allowed.
func Difficulty(d string) error {
	if d == "" {
		return nil
	}
	if !models.ValidDifficulty(d) {
		return models.NewValidationError("Difficulty must be one of beginner, intermediate, advanced, expert.")
	}
	return nil
}

// PositiveInt validates an optional numeric field such as a cook time or a
// serving count. name prefixes the error message.
func PositiveInt(name string, v *int) error {
	if v != nil && *v <= 0 {
		return models.NewValidationError(name + " must be a positive number.")
	}
	return nil
}

// NormalizeTags splits a comma-separated tag string into trimmed lowercase
// tags, dropping empties and duplicates while preserving order.
func NormalizeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
