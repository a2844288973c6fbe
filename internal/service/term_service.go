package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type termRepository interface {
	List(ctx context.Context) ([]models.Term, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
	FindActive(ctx context.Context) (*models.Term, error)
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string) error
}

// TermService manages academic terms and the single active one.
type TermService struct {
	repo      termRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewTermService constructs a TermService.
func NewTermService(repo termRepository, validate *validation.Validator, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, validator: validate, logger: logger}
}

// List returns all terms.
func (s *TermService) List(ctx context.Context) ([]models.Term, error) {
	terms, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list terms")
	}
	return terms, nil
}

// Get returns a term.
func (s *TermService) Get(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "term")
	}
	return term, nil
}

// Active returns the active term.
func (s *TermService) Active(ctx context.Context) (*models.Term, error) {
	term, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoActiveTerm
		}
		return nil, internalError(err, "failed to load active term")
	}
	return term, nil
}

// Create adds an inactive term.
func (s *TermService) Create(ctx context.Context, req models.TermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	term := &models.Term{AcademicYear: req.AcademicYear, Semester: req.Semester}
	if err := s.repo.Create(ctx, term); err != nil {
		return nil, writeError(err, "term", "Term already exists", "")
	}
	return term, nil
}

// Update replaces the year and semester of a term.
func (s *TermService) Update(ctx context.Context, id string, req models.TermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	term.AcademicYear = req.AcademicYear
	term.Semester = req.Semester
	if err := s.repo.Update(ctx, term); err != nil {
		return nil, writeError(err, "term", "Term already exists", "")
	}
	return term, nil
}

// Delete removes a term without enrollments.
func (s *TermService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "term", "", "Term still has enrollments")
	}
	return nil
}

// Activate makes id the only active term.
func (s *TermService) Activate(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if term.IsActive {
		return nil, appErrors.ErrTermAlreadyActive
	}
	if err := s.repo.SetActive(ctx, id); err != nil {
		if database.IsUniqueViolation(err, "terms_single_active_idx") {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Another term was activated concurrently")
		}
		return nil, writeError(err, "term", "", "")
	}
	s.logger.Info("term activated", zap.String("term_id", id), zap.String("academic_year", term.AcademicYear), zap.String("semester", string(term.Semester)))
	term.IsActive = true
	return term, nil
}
