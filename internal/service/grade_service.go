package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type gradeRepository interface {
	Upsert(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

type enrollmentReader interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
}

type facultyByUserFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.FacultyDetail, error)
}

// GradeService records and maintains enrollment grades.
type GradeService struct {
	grades      gradeRepository
	enrollments enrollmentReader
	faculty     facultyByUserFinder
	validator   *validation.Validator
	logger      *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(grades gradeRepository, enrollments enrollmentReader, faculty facultyByUserFinder, validate *validation.Validator, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, enrollments: enrollments, faculty: faculty, validator: validate, logger: logger}
}

// Upsert records the grade of an enrollment taught by the calling faculty
// member. The student must be admitted.
func (s *GradeService) Upsert(ctx context.Context, facultyUserID, enrollmentID string, req models.GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	faculty, err := s.faculty.FindByUserID(ctx, facultyUserID)
	if err != nil {
		return nil, lookupError(err, "faculty profile")
	}
	enrollment, err := s.enrollments.FindDetailByID(ctx, enrollmentID)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}
	if enrollment.FacultyID != faculty.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "You are not the faculty of this enrollment")
	}
	if !enrollment.StudentAdmitted {
		return nil, appErrors.ErrNotAdmitted
	}

	grade := &models.Grade{EnrollmentID: enrollment.ID, Grade: *req.Grade}
	if err := s.grades.Upsert(ctx, grade); err != nil {
		return nil, writeError(err, "grade", "", "")
	}
	s.logger.Info("grade recorded",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("faculty_id", faculty.ID),
		zap.Float64("grade", grade.Grade),
	)
	return grade, nil
}

// List returns graded enrollments for administrators.
func (s *GradeService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	filter.Normalize()
	filter.GradedOnly = true
	items, total, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list grades")
	}
	return items, models.NewPagination(filter.ListFilter, total), nil
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if err := s.grades.Delete(ctx, id); err != nil {
		return writeError(err, "grade", "", "")
	}
	return nil
}
