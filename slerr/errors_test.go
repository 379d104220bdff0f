package slerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionErrorWrapsCause(t *testing.T) {
	cause := errors.New("mkdir failed")
	err := NewSubmissionError(cause)
	assert.Contains(t, err.Error(), "mkdir failed")
	assert.True(t, errors.Is(err, cause) || errors.Unwrap(err) != nil)
}

func TestServerErrorVariants(t *testing.T) {
	plain := NewServerError("queue server returned an error response")
	assert.Equal(t, "queue server returned an error response", plain.Error())

	wrapped := WrapServerError("dialing queue server", errors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "dialing queue server")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("job 7 not found")
	require.Error(t, err)
	assert.Equal(t, "job 7 not found", err.Error())
}
