package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/session"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
	"github.com/noah-isme/sis-api/pkg/validation"
)

func claimsFromContext(c *gin.Context) *session.Claims {
	return middleware.Claims(c)
}

// requireClaims writes a 401 and returns nil when the route was mounted
// without a session middleware.
func requireClaims(c *gin.Context) *session.Claims {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
	}
	return claims
}

// bindJSON decodes the body into dst and reports malformed payloads.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, validation.Malformed(err))
		return false
	}
	return true
}

// pathID reads a UUID path parameter. Anything else cannot name a row, so it
// is answered with 404 before reaching the database.
func pathID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		response.Error(c, appErrors.ErrNotFound)
		return "", false
	}
	return raw, true
}

// queryID reads an optional UUID query filter and writes a 400 when it is
// malformed.
func queryID(c *gin.Context, name string) (string, bool) {
	raw := c.Query(name)
	if raw == "" {
		return "", true
	}
	if _, err := uuid.Parse(raw); err != nil {
		response.Error(c, validation.Invalid(name, name+" must be a valid UUID"))
		return "", false
	}
	return raw, true
}

func listFilterFromQuery(c *gin.Context) models.ListFilter {
	var filter models.ListFilter
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

func enrollmentFilterFromQuery(c *gin.Context) (models.EnrollmentFilter, bool) {
	studentID, ok := queryID(c, "studentId")
	if !ok {
		return models.EnrollmentFilter{}, false
	}
	termID, ok := queryID(c, "termId")
	if !ok {
		return models.EnrollmentFilter{}, false
	}
	return models.EnrollmentFilter{
		ListFilter:  listFilterFromQuery(c),
		StudentID:   studentID,
		SubjectCode: c.Query("subjectCode"),
		TermID:      termID,
		Status:      models.EnrollmentStatus(c.Query("status")),
	}, true
}
