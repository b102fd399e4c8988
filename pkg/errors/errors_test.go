package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorFormat(t *testing.T) {
	plain := NewValidationError("bad exemplar file")
	assert.Equal(t, "VALIDATION: bad exemplar file", plain.Error())

	wrapped := NewInternalError("encoding interpretation result", errors.New("boom"))
	assert.Equal(t, "INTERNAL: encoding interpretation result: boom", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnavailableError("embeddings request failed", cause)
	assert.ErrorIs(t, err, cause)

	assert.Nil(t, NewNotFoundError("missing").Unwrap())
}

func TestConstructors_SetType(t *testing.T) {
	assert.Equal(t, ErrorTypeNotFound, NewNotFoundError("x").Type)
	assert.Equal(t, ErrorTypeValidation, NewValidationError("x").Type)
	assert.Equal(t, ErrorTypeInternal, NewInternalError("x", nil).Type)
	assert.Equal(t, ErrorTypeExternal, NewExternalError("x", nil).Type)
	assert.Equal(t, ErrorTypeUnavailable, NewUnavailableError("x", nil).Type)
}
