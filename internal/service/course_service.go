package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, courseID string) ([]models.Subject, error)
	AddSubject(ctx context.Context, courseID, subjectCode string) error
	RemoveSubject(ctx context.Context, courseID, subjectCode string) error
}

type subjectFinder interface {
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
}

// CourseService manages degree programs and their curriculum.
type CourseService struct {
	repo      courseRepository
	subjects  subjectFinder
	cache     *CacheService
	validator *validation.Validator
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, subjects subjectFinder, cache *CacheService, validate *validation.Validator, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// List returns every course. The result is served from the catalog cache
// when one is configured.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var cached []models.Course
	if s.cache.Get(ctx, catalogCoursesKey, &cached) {
		return cached, nil
	}
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list courses")
	}
	s.cache.Set(ctx, catalogCoursesKey, courses, 0)
	return courses, nil
}

// Get returns a course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return course, nil
}

// Create stores a new course.
func (s *CourseService) Create(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	course := &models.Course{CourseName: req.CourseName, Department: req.Department}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, writeError(err, "course", "Course already exists", "")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return course, nil
}

// Update replaces the fields of a course.
func (s *CourseService) Update(ctx context.Context, id string, req models.CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	course.CourseName = req.CourseName
	course.Department = req.Department
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, writeError(err, "course", "Course already exists", "")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return course, nil
}

// Delete removes a course that no student references.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "course", "", "Course still has enrolled students")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return nil
}

// Subjects lists the curriculum of a course.
func (s *CourseService) Subjects(ctx context.Context, courseID string) ([]models.Subject, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	subjects, err := s.repo.ListSubjects(ctx, courseID)
	if err != nil {
		return nil, internalError(err, "failed to list course subjects")
	}
	return subjects, nil
}

// AddSubject maps an existing subject to a course.
func (s *CourseService) AddSubject(ctx context.Context, courseID string, req models.CourseSubjectRequest) ([]models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	if _, err := s.subjects.FindByCode(ctx, req.SubjectCode); err != nil {
		return nil, lookupError(err, "subject")
	}
	if err := s.repo.AddSubject(ctx, courseID, req.SubjectCode); err != nil {
		return nil, writeError(err, "course subject", "", "")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return s.Subjects(ctx, courseID)
}

// RemoveSubject unmaps a subject from a course.
func (s *CourseService) RemoveSubject(ctx context.Context, courseID, subjectCode string) error {
	if err := s.repo.RemoveSubject(ctx, courseID, subjectCode); err != nil {
		return writeError(err, "course subject", "", "")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return nil
}
