package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reviewhub.app/reviewhub/pkg/apperror"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "bob_2", "user.name", "user+tag", "user@host", "me2"}
	for _, username := range valid {
		assert.NoError(t, ValidateUsername(username), username)
	}

	invalid := []string{"me", "Me", "ME", "mE", "has space", "emoji😀", ""}
	for _, username := range invalid {
		assert.ErrorIs(t, ValidateUsername(username), apperror.ErrInvalidInput, username)
	}
}

func TestValidateYear(t *testing.T) {
	current := time.Now().Year()

	assert.NoError(t, ValidateYear(current))
	assert.NoError(t, ValidateYear(1800))
	assert.ErrorIs(t, ValidateYear(current+1), apperror.ErrInvalidInput)
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"books", "sci-fi", "top_10", "ABC-123"}
	for _, slug := range valid {
		assert.NoError(t, ValidateSlug(slug), slug)
	}

	invalid := []string{"", "no spaces", "slash/slug", "dot.slug"}
	for _, slug := range invalid {
		assert.ErrorIs(t, ValidateSlug(slug), apperror.ErrInvalidInput, slug)
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{"user", "moderator", "admin"} {
		assert.NoError(t, ValidateRole(role), role)
	}

	for _, role := range []string{"", "superuser", "Admin"} {
		assert.ErrorIs(t, ValidateRole(role), apperror.ErrInvalidInput, role)
	}
}
