package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/pkg/apperror"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ValidateUsername rejects the reserved name "me" and anything outside the
// allowed character set.
func ValidateUsername(username string) error {
	if strings.EqualFold(username, "me") {
		return fmt.Errorf("%w: username %q is reserved", apperror.ErrInvalidInput, username)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, digits and @/./+/-/_", apperror.ErrInvalidInput)
	}
	return nil
}

// ValidateYear rejects a year later than the current calendar year.
func ValidateYear(year int) error {
	if year > time.Now().Year() {
		return fmt.Errorf("%w: year %d is in the future", apperror.ErrInvalidInput, year)
	}
	return nil
}

func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("%w: slug may only contain letters, digits, hyphens and underscores", apperror.ErrInvalidInput)
	}
	return nil
}

func ValidateRole(role string) error {
	for _, known := range model.Roles {
		if role == known {
			return nil
		}
	}
	return fmt.Errorf("%w: role must be one of %s", apperror.ErrInvalidInput, strings.Join(model.Roles, ", "))
}
