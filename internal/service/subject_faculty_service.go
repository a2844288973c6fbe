package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type subjectFacultyRepository interface {
	List(ctx context.Context, filter models.SubjectFacultyFilter) ([]models.SubjectFacultyDetail, error)
	FindByID(ctx context.Context, id string) (*models.SubjectFacultyDetail, error)
	Exists(ctx context.Context, subjectCode, facultyID string) (bool, error)
	Create(ctx context.Context, item *models.SubjectFaculty) error
	Delete(ctx context.Context, id string) error
}

type facultyFinder interface {
	FindByID(ctx context.Context, id string) (*models.FacultyDetail, error)
}

// SubjectFacultyService assigns faculty members to the subjects they teach.
type SubjectFacultyService struct {
	repo      subjectFacultyRepository
	subjects  subjectFinder
	faculty   facultyFinder
	validator *validation.Validator
	logger    *zap.Logger
}

// NewSubjectFacultyService constructs a SubjectFacultyService.
func NewSubjectFacultyService(repo subjectFacultyRepository, subjects subjectFinder, faculty facultyFinder, validate *validation.Validator, logger *zap.Logger) *SubjectFacultyService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectFacultyService{repo: repo, subjects: subjects, faculty: faculty, validator: validate, logger: logger}
}

// List returns assignments filtered by subject or faculty.
func (s *SubjectFacultyService) List(ctx context.Context, filter models.SubjectFacultyFilter) ([]models.SubjectFacultyDetail, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list subject faculty")
	}
	return items, nil
}

// Assign links a faculty member to a subject once.
func (s *SubjectFacultyService) Assign(ctx context.Context, req models.SubjectFacultyRequest) (*models.SubjectFacultyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.subjects.FindByCode(ctx, req.SubjectCode); err != nil {
		return nil, lookupError(err, "subject")
	}
	if _, err := s.faculty.FindByID(ctx, req.FacultyID); err != nil {
		return nil, lookupError(err, "faculty")
	}
	exists, err := s.repo.Exists(ctx, req.SubjectCode, req.FacultyID)
	if err != nil {
		return nil, internalError(err, "failed to check subject faculty")
	}
	if exists {
		return nil, appErrors.ErrDuplicateAssignment
	}

	item := &models.SubjectFaculty{SubjectCode: req.SubjectCode, FacultyID: req.FacultyID}
	if err := s.repo.Create(ctx, item); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, appErrors.ErrDuplicateAssignment
		}
		return nil, writeError(err, "subject faculty", "", "")
	}
	detail, err := s.repo.FindByID(ctx, item.ID)
	if err != nil {
		return nil, lookupError(err, "subject faculty")
	}
	return detail, nil
}

// Unassign removes an assignment.
func (s *SubjectFacultyService) Unassign(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "subject faculty", "", "")
	}
	return nil
}
