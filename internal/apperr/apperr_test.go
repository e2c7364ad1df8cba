package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrInvalidArgument, http.StatusBadRequest},
		{ErrConflict, http.StatusConflict},
		{ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("something else"), http.StatusInternalServerError},
		{fmt.Errorf("user not found: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("outer: %w", fmt.Errorf("already friends: %w", ErrConflict)), http.StatusConflict},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Status(tt.err), "error %v", tt.err)
	}
}
