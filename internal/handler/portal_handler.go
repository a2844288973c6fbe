package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/response"
)

// FacultyPortalHandler serves the signed in faculty member.
type FacultyPortalHandler struct {
	portal *service.FacultyPortalService
}

// NewFacultyPortalHandler constructs FacultyPortalHandler.
func NewFacultyPortalHandler(portal *service.FacultyPortalService) *FacultyPortalHandler {
	return &FacultyPortalHandler{portal: portal}
}

// Profile godoc
// @Summary Faculty profile
// @Tags FacultyPortal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculty/profile [get]
func (h *FacultyPortalHandler) Profile(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	profile, err := h.portal.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateProfile godoc
// @Summary Update faculty profile
// @Tags FacultyPortal
// @Accept json
// @Produce json
// @Param payload body models.FacultySelfUpdateRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /faculty/profile [patch]
func (h *FacultyPortalHandler) UpdateProfile(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.FacultySelfUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.portal.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Subjects godoc
// @Summary Subjects assigned to the caller
// @Tags FacultyPortal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculty/subjects [get]
func (h *FacultyPortalHandler) Subjects(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	subjects, err := h.portal.Subjects(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Classes godoc
// @Summary Classes of the caller
// @Description Lists the admitted students enrolled with the caller
// @Tags FacultyPortal
// @Produce json
// @Param termId query string false "Filter by term"
// @Param search query string false "Search student or subject"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /faculty/classes [get]
func (h *FacultyPortalHandler) Classes(c *gin.Context) {
	if filter, ok := enrollmentFilterFromQuery(c); ok {
		h.classes(c, filter)
	}
}

// ClassBySubject godoc
// @Summary Class of one subject
// @Tags FacultyPortal
// @Produce json
// @Param subjectCode path string true "Subject code"
// @Success 200 {object} response.Envelope
// @Router /faculty/classes/subject/{subjectCode} [get]
func (h *FacultyPortalHandler) ClassBySubject(c *gin.Context) {
	filter, ok := enrollmentFilterFromQuery(c)
	if !ok {
		return
	}
	filter.SubjectCode = c.Param("subjectCode")
	h.classes(c, filter)
}

func (h *FacultyPortalHandler) classes(c *gin.Context, filter models.EnrollmentFilter) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	items, pagination, err := h.portal.Classes(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// ClassStudent godoc
// @Summary Student in the caller's classes
// @Tags FacultyPortal
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Router /faculty/classes/student/{studentId} [get]
func (h *FacultyPortalHandler) ClassStudent(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	studentID, ok := pathID(c, "studentId")
	if !ok {
		return
	}
	record, err := h.portal.ClassStudent(c.Request.Context(), claims.UserID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

type studentPortal interface {
	Profile(ctx context.Context, userID string) (*models.StudentDetail, error)
	UpdateProfile(ctx context.Context, userID string, req models.StudentSelfUpdateRequest) (*models.StudentDetail, error)
	Enrollments(ctx context.Context, userID string, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error)
	Grades(ctx context.Context, userID string) ([]models.EnrollmentDetail, error)
	Transcript(ctx context.Context, userID, format string) (*service.TranscriptFile, error)
}

// StudentPortalHandler serves the signed in student.
type StudentPortalHandler struct {
	portal studentPortal
}

// NewStudentPortalHandler constructs StudentPortalHandler.
func NewStudentPortalHandler(portal studentPortal) *StudentPortalHandler {
	return &StudentPortalHandler{portal: portal}
}

// Profile godoc
// @Summary Student profile
// @Description Available before admission
// @Tags StudentPortal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/profile [get]
func (h *StudentPortalHandler) Profile(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	profile, err := h.portal.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpdateProfile godoc
// @Summary Update student profile
// @Tags StudentPortal
// @Accept json
// @Produce json
// @Param payload body models.StudentSelfUpdateRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /student/profile [patch]
func (h *StudentPortalHandler) UpdateProfile(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req models.StudentSelfUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	profile, err := h.portal.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Enrollments godoc
// @Summary Enrollments of the caller
// @Tags StudentPortal
// @Produce json
// @Param termId query string false "Filter by term"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Router /student/enrollments [get]
func (h *StudentPortalHandler) Enrollments(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	filter, ok := enrollmentFilterFromQuery(c)
	if !ok {
		return
	}
	items, pagination, err := h.portal.Enrollments(c.Request.Context(), claims.UserID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Grades godoc
// @Summary Grades of the caller
// @Tags StudentPortal
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.ErrorBody
// @Router /student/grades [get]
func (h *StudentPortalHandler) Grades(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	grades, err := h.portal.Grades(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// ExportGrades godoc
// @Summary Download transcript
// @Tags StudentPortal
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /student/grades/export [get]
func (h *StudentPortalHandler) ExportGrades(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	file, err := h.portal.Transcript(c.Request.Context(), claims.UserID, c.DefaultQuery("format", export.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
