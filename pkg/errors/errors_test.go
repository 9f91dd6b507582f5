package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Contains(t, appErr.Error(), "boom")
}

func TestCloneKeepsCodeAndMatches(t *testing.T) {
	clone := Clone(ErrNotFound, "student not found")
	assert.Equal(t, "student not found", clone.Message)
	assert.Equal(t, ErrNotFound.Code, clone.Code)
	assert.True(t, errors.Is(fmt.Errorf("load: %w", clone), ErrNotFound))
	assert.False(t, errors.Is(clone, ErrForbidden))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}
