package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

// SubjectFacultyHandler exposes faculty to subject assignments.
type SubjectFacultyHandler struct {
	service *service.SubjectFacultyService
}

// NewSubjectFacultyHandler constructs SubjectFacultyHandler.
func NewSubjectFacultyHandler(svc *service.SubjectFacultyService) *SubjectFacultyHandler {
	return &SubjectFacultyHandler{service: svc}
}

// List godoc
// @Summary List faculty assignments
// @Tags SubjectFaculty
// @Produce json
// @Param subjectCode query string false "Filter by subject"
// @Param facultyId query string false "Filter by faculty"
// @Success 200 {object} response.Envelope
// @Router /admin/subject-faculty [get]
func (h *SubjectFacultyHandler) List(c *gin.Context) {
	facultyID, ok := queryID(c, "facultyId")
	if !ok {
		return
	}
	filter := models.SubjectFacultyFilter{
		SubjectCode: c.Query("subjectCode"),
		FacultyID:   facultyID,
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Assign godoc
// @Summary Assign faculty to subject
// @Tags SubjectFaculty
// @Accept json
// @Produce json
// @Param payload body models.SubjectFacultyRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /admin/subject-faculty [post]
func (h *SubjectFacultyHandler) Assign(c *gin.Context) {
	var req models.SubjectFacultyRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.Assign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Unassign godoc
// @Summary Remove faculty assignment
// @Tags SubjectFaculty
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /admin/subject-faculty/{id} [delete]
func (h *SubjectFacultyHandler) Unassign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Unassign(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
