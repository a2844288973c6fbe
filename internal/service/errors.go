package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// lookupError maps a repository read failure: a missing row becomes a 404
// naming the resource.
func lookupError(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	}
	return internalError(err, "failed to load "+resource)
}

// writeError maps a repository write failure. Unique violations become 409
// with conflictMsg and foreign key violations 409 with referencedMsg.
func writeError(err error, resource, conflictMsg, referencedMsg string) error {
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, resource+" not found")
	case conflictMsg != "" && database.IsUniqueViolation(err, ""):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMsg)
	case referencedMsg != "" && database.IsForeignKeyViolation(err, ""):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, referencedMsg)
	default:
		return internalError(err, "failed to save "+resource)
	}
}
