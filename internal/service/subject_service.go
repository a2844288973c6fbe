package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Subject, int, error)
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, code string) error
}

// SubjectService manages the subject catalog.
type SubjectService struct {
	repo      subjectRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, validate *validation.Validator, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.ListFilter) ([]models.Subject, *models.Pagination, error) {
	filter.Normalize()
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list subjects")
	}
	return subjects, models.NewPagination(filter, total), nil
}

// Get returns a subject by code.
func (s *SubjectService) Get(ctx context.Context, code string) (*models.Subject, error) {
	subject, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, lookupError(err, "subject")
	}
	return subject, nil
}

// Create adds a subject. Codes are stored upper case.
func (s *SubjectService) Create(ctx context.Context, req models.SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	subject := &models.Subject{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        req.Name,
		Description: req.Description,
		Units:       req.Units,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, writeError(err, "subject", "Subject code already exists", "")
	}
	return subject, nil
}

// Update replaces the descriptive fields of a subject.
func (s *SubjectService) Update(ctx context.Context, code string, req models.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	subject, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	subject.Name = req.Name
	subject.Description = req.Description
	subject.Units = req.Units
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, writeError(err, "subject", "", "")
	}
	return subject, nil
}

// Delete removes a subject that has no enrollments.
func (s *SubjectService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return writeError(err, "subject", "", "Subject still has enrollments")
	}
	return nil
}
