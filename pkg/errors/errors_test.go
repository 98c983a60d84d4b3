package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", ErrSessionNotFound)

	appErr := FromError(wrapped)
	assert.Equal(t, ErrSessionNotFound.Code, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, "internal server error: boom", appErr.Error())
}

func TestIsComparesCodes(t *testing.T) {
	clone := Clone(ErrIncompleteCourses, "course 2 has no grade")
	assert.True(t, Is(clone, ErrIncompleteCourses))
	assert.False(t, Is(clone, ErrInvalidTransition))
	assert.False(t, Is(errors.New("plain"), ErrIncompleteCourses))
	assert.Equal(t, "every course needs credit hours and a grade", ErrIncompleteCourses.Message)
}
