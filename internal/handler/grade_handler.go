package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
)

type gradeService interface {
	Upsert(ctx context.Context, facultyUserID, enrollmentID string, req models.GradeRequest) (*models.Grade, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

// GradeHandler exposes grade endpoints for faculty and administrators.
type GradeHandler struct {
	grades gradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades gradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param subjectCode query string false "Filter by subject"
// @Param termId query string false "Filter by term"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	filter, ok := enrollmentFilterFromQuery(c)
	if !ok {
		return
	}
	grades, pagination, err := h.grades.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, pagination)
}

// Upsert godoc
// @Summary Record grade
// @Description Records or replaces the grade of an enrollment taught by the caller
// @Tags Grades
// @Accept json
// @Produce json
// @Param enrollmentId path string true "Enrollment ID"
// @Param payload body models.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /faculty/classes/grade/{enrollmentId} [patch]
func (h *GradeHandler) Upsert(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.GradeRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollmentID, ok := pathID(c, "enrollmentId")
	if !ok {
		return
	}
	grade, err := h.grades.Upsert(c.Request.Context(), claims.UserID, enrollmentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete grade
// @Tags Grades
// @Param id path string true "Grade ID"
// @Success 204
// @Router /admin/grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.grades.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
