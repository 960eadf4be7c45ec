package esstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/school-data-api/pkg/errors"
)

func TestUniqueSeenFlagsDuplicatesWithinRequest(t *testing.T) {
	seen := uniqueSeen{}

	require.NoError(t, seen.claim("student", "email", "dup@example.com"))

	err := seen.claim("student", "email", "dup@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Contains(t, err.Error(), "dup@example.com")

	require.NoError(t, seen.claim("student", "email", "other@example.com"))
}

func TestUniqueSeenKeysByField(t *testing.T) {
	seen := uniqueSeen{}

	require.NoError(t, seen.claim("class", "class_code", "9A"))
	require.NoError(t, seen.claim("student", "student_code", "9A"))

	err := seen.claim("class", "class_code", "9A")
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}
