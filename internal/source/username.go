package source

import (
	"fmt"
	"regexp"
	"strings"
)

// alphanumerics separated by single hyphens, at most 39 characters
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

// ValidateUsername checks that name is a well-formed GitHub login.
func ValidateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("username is required")
	}
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("invalid GitHub username %q", name)
	}
	return nil
}
