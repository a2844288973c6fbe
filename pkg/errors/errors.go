package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"-"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so callers can compare against the
// predefined values after Clone or Wrap.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials   = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "Invalid Username/Email or Password")
	ErrUnauthorized         = New("UNAUTHORIZED", http.StatusUnauthorized, "Authentication required")
	ErrInvalidSession       = New("INVALID_SESSION", http.StatusUnauthorized, "Invalid or expired session")
	ErrForbidden            = New("FORBIDDEN", http.StatusForbidden, "Forbidden: insufficient role")
	ErrAlreadyAuthenticated = New("ALREADY_AUTHENTICATED", http.StatusForbidden, "Already authenticated")
	ErrNotAdmitted          = New("NOT_ADMITTED", http.StatusForbidden, "student not admitted")
	ErrNotFound             = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrNoActiveTerm         = New("NO_ACTIVE_TERM", http.StatusNotFound, "No active term found")
	ErrCourseHasNoSubjects  = New("COURSE_HAS_NO_SUBJECTS", http.StatusNotFound, "No subjects found for the course")
	ErrSubjectNoFaculty     = New("SUBJECT_MISSING_FACULTY", http.StatusNotFound, "No faculty assigned to subject")
	ErrConflict             = New("CONFLICT", http.StatusConflict, "conflict")
	ErrDuplicateAssignment  = New("DUPLICATE_ASSIGNMENT", http.StatusBadRequest, "This faculty is already assigned to the subject")
	ErrTermAlreadyActive    = New("TERM_ALREADY_ACTIVE", http.StatusBadRequest, "Term is already active")
	ErrValidation           = New("VALIDATION_ERROR", http.StatusBadRequest, "Validation Failed")
	ErrRouteNotFound        = New("ROUTE_NOT_FOUND", http.StatusNotFound, "route not found")
	ErrCacheMiss            = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal             = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// SubjectMissingFaculty reports the subject that blocked an enrollment.
func SubjectMissingFaculty(subjectCode string) *Error {
	return Clone(ErrSubjectNoFaculty, fmt.Sprintf("No faculty assigned to subject %s", subjectCode))
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithFields returns a copy of err carrying field level details.
func WithFields(err *Error, cause error, fields []FieldError) *Error {
	clone := Clone(err, "")
	if clone == nil {
		return nil
	}
	clone.Fields = fields
	clone.Err = cause
	return clone
}
