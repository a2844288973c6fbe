package errors

import (
	"database/sql"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(fmt.Errorf("dial tcp: refused"))

	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, ErrInternal.Message, err.Message)
	assert.Nil(t, FromError(nil))
}

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")

	assert.Equal(t, "course not found", err.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.True(t, stdErrors.Is(err, ErrNotFound))
	assert.False(t, stdErrors.Is(err, ErrConflict))
}

func TestWrapUnwrapsCause(t *testing.T) {
	err := Wrap(sql.ErrNoRows, ErrInternal.Code, ErrInternal.Status, "failed")

	assert.True(t, stdErrors.Is(err, sql.ErrNoRows))
	assert.Equal(t, "failed: sql: no rows in result set", err.Error())
}

func TestSubjectMissingFaculty(t *testing.T) {
	err := SubjectMissingFaculty("IT101")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "IT101")
	assert.True(t, stdErrors.Is(err, ErrSubjectNoFaculty))
}

func TestWithFields(t *testing.T) {
	fields := []FieldError{{Field: "email", Message: "email must be a valid email address"}}
	err := WithFields(ErrValidation, nil, fields)

	assert.Equal(t, fields, err.Fields)
	assert.Empty(t, ErrValidation.Fields)
}
