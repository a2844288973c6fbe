package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/export"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type studentProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
	Update(ctx context.Context, student *models.Student, creds *models.CredentialChange) error
}

// TranscriptFile is a rendered transcript ready for download.
type TranscriptFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StudentPortalService serves the student's own profile, enrollments and
// grades.
type StudentPortalService struct {
	students    studentProfileStore
	hasher      passwordHasher
	enrollments enrollmentLister
	validator   *validation.Validator
	logger      *zap.Logger
	now         func() time.Time
}

// NewStudentPortalService constructs a StudentPortalService.
func NewStudentPortalService(students studentProfileStore, hasher passwordHasher, enrollments enrollmentLister, validate *validation.Validator, logger *zap.Logger) *StudentPortalService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentPortalService{students: students, hasher: hasher, enrollments: enrollments, validator: validate, logger: logger, now: time.Now}
}

// Profile returns the caller's student profile. Admission is not required.
func (s *StudentPortalService) Profile(ctx context.Context, userID string) (*models.StudentDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile")
	}
	return student, nil
}

// UpdateProfile changes the caller's email, password, contact number or address.
func (s *StudentPortalService) UpdateProfile(ctx context.Context, userID string, req models.StudentSelfUpdateRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	creds, err := credentialChange(s.hasher, current.Email, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	student := current.Student
	patchString(&student.ContactNo, req.ContactNo)
	patchString(&student.Address, req.Address)
	if err := s.students.Update(ctx, &student, creds); err != nil {
		return nil, writeError(err, "student profile", "Email already exists", "")
	}
	return s.Profile(ctx, userID)
}

func (s *StudentPortalService) admitted(ctx context.Context, userID string) (*models.StudentDetail, error) {
	student, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !student.Admitted {
		return nil, appErrors.ErrNotAdmitted
	}
	return student, nil
}

// Enrollments lists the caller's enrollments.
func (s *StudentPortalService) Enrollments(ctx context.Context, userID string, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	student, err := s.admitted(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	filter.Normalize()
	filter.StudentID = student.ID
	filter.FacultyID = ""
	items, total, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list enrollments")
	}
	return items, models.NewPagination(filter.ListFilter, total), nil
}

// Grades lists the caller's graded enrollments.
func (s *StudentPortalService) Grades(ctx context.Context, userID string) ([]models.EnrollmentDetail, error) {
	student, err := s.admitted(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.gradedEnrollments(ctx, student.ID)
}

func (s *StudentPortalService) gradedEnrollments(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	filter := models.EnrollmentFilter{
		ListFilter: models.ListFilter{SortBy: "subjectCode"},
		StudentID:  studentID,
		GradedOnly: true,
	}
	graded, err := allEnrollments(ctx, s.enrollments, filter)
	if err != nil {
		return nil, internalError(err, "failed to list grades")
	}
	return graded, nil
}

// allEnrollments walks every page of filter so long records are never cut
// at the page size limit.
func allEnrollments(ctx context.Context, store enrollmentLister, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	filter.Page = 1
	filter.PageSize = models.MaxPageSize
	var all []models.EnrollmentDetail
	for {
		items, total, err := store.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || len(all) >= total {
			return all, nil
		}
		filter.Page++
	}
}

// Transcript renders the caller's grades as CSV or PDF.
func (s *StudentPortalService) Transcript(ctx context.Context, userID, format string) (*TranscriptFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, validation.Invalid("format", "format must be one of csv or pdf")
	}
	student, err := s.admitted(ctx, userID)
	if err != nil {
		return nil, err
	}
	grades, err := s.gradedEnrollments(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	report := transcriptReport(student, grades, s.now())
	data, err := renderer.Render(report)
	if err != nil {
		return nil, internalError(err, "failed to render transcript")
	}
	s.logger.Info("transcript exported", zap.String("student_id", student.ID), zap.String("format", renderer.Extension()))
	return &TranscriptFile{
		Filename:    fmt.Sprintf("transcript-%s.%s", strings.ToLower(student.LastName), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func transcriptReport(student *models.StudentDetail, grades []models.EnrollmentDetail, generatedAt time.Time) export.Report {
	report := export.Report{
		Title: "Transcript of Records",
		Details: [][2]string{
			{"Student", student.FullName()},
			{"Course", student.CourseName},
			{"Generated", generatedAt.UTC().Format(validation.DateLayout)},
		},
		Columns: []export.Column{
			{Key: "term", Title: "Term", Width: 35},
			{Key: "code", Title: "Code", Width: 22},
			{Key: "subject", Title: "Subject"},
			{Key: "units", Title: "Units", Width: 14, Align: "R"},
			{Key: "faculty", Title: "Faculty", Width: 40},
			{Key: "grade", Title: "Grade", Width: 18, Align: "R"},
		},
	}

	var weighted float64
	var units int
	for _, g := range grades {
		grade := ""
		if g.Grade != nil {
			grade = strconv.FormatFloat(*g.Grade, 'f', 2, 64)
			weighted += *g.Grade * float64(g.Units)
			units += g.Units
		}
		report.Rows = append(report.Rows, map[string]string{
			"term":    g.AcademicYear + " " + string(g.Semester),
			"code":    g.SubjectCode,
			"subject": g.SubjectName,
			"units":   strconv.Itoa(g.Units),
			"faculty": g.FacultyFirstName + " " + g.FacultyLastName,
			"grade":   grade,
		})
	}
	if units > 0 {
		report.Footer = fmt.Sprintf("Weighted average: %.2f over %d units", weighted/float64(units), units)
	}
	return report
}
