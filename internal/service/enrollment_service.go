package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/repository"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type registrationStore interface {
	WithinTx(ctx context.Context, fn func(repository.RegistrationTx) error) error
}

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
	Delete(ctx context.Context, id string) error
}

// EnrollmentResult is returned after a successful registration.
type EnrollmentResult struct {
	Student     *models.Student     `json:"student"`
	Enrollments []models.Enrollment `json:"enrollments"`
}

// EnrollmentService registers students and maintains their enrollments.
type EnrollmentService struct {
	registrations registrationStore
	repo          enrollmentRepository
	hasher        passwordHasher
	validator     *validation.Validator
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(registrations registrationStore, repo enrollmentRepository, hasher passwordHasher, validate *validation.Validator, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{registrations: registrations, repo: repo, hasher: hasher, validator: validate, metrics: metrics, logger: logger}
}

// EnrollmentMessage is the confirmation shown after registration.
func EnrollmentMessage(student *models.Student) string {
	return fmt.Sprintf("Student %s %s enrolled successfully, you may start using the portal after official admission.", student.FirstName, student.LastName)
}

// EnrollStudent creates the student account, its profile and one enrollment
// per subject of the chosen course for the active term. Nothing is persisted
// unless every step succeeds.
func (s *EnrollmentService) EnrollStudent(ctx context.Context, req models.CreateStudentRequest) (*EnrollmentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordEnrollment(OutcomeRejected)
		return nil, err
	}
	dateEnrolled, err := time.Parse(validation.DateLayout, req.DateEnrolled)
	if err != nil {
		s.metrics.RecordEnrollment(OutcomeRejected)
		return nil, validation.Invalid("dateEnrolled", "dateEnrolled must be a date formatted as YYYY-MM-DD")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.metrics.RecordEnrollment(OutcomeError)
		return nil, internalError(err, "failed to hash password")
	}

	result := &EnrollmentResult{}
	started := time.Now()
	err = s.registrations.WithinTx(ctx, func(tx repository.RegistrationTx) error {
		exists, err := tx.CourseExists(ctx, req.CourseID)
		if err != nil {
			return err
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}

		user := &models.User{
			Username:     strings.TrimSpace(req.Username),
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.RoleStudent,
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}

		student := &models.Student{
			ID:           uuid.NewString(),
			UserID:       user.ID,
			CourseID:     req.CourseID,
			FirstName:    req.FirstName,
			MiddleName:   req.MiddleName,
			LastName:     req.LastName,
			Address:      req.Address,
			DateEnrolled: dateEnrolled,
			Sex:          req.Sex,
			PlaceOfBirth: req.PlaceOfBirth,
			Nationality:  req.Nationality,
			Religion:     req.Religion,
			ContactNo:    req.ContactNo,
			CivilStatus:  req.CivilStatus,
			Admitted:     false,
		}
		now := time.Now().UTC()
		student.CreatedAt = now
		student.UpdatedAt = now
		if err := tx.CreateStudent(ctx, student); err != nil {
			return err
		}

		term, err := tx.FindActiveTerm(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrNoActiveTerm
			}
			return err
		}

		subjects, err := tx.ListCourseSubjects(ctx, req.CourseID)
		if err != nil {
			return err
		}
		if len(subjects) == 0 {
			return appErrors.ErrCourseHasNoSubjects
		}

		enrollments := make([]models.Enrollment, 0, len(subjects))
		for _, subject := range subjects {
			assignment, err := tx.FindSubjectFaculty(ctx, subject.Code)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return appErrors.SubjectMissingFaculty(subject.Code)
				}
				return err
			}
			enrollments = append(enrollments, models.Enrollment{
				StudentID:   student.ID,
				SubjectCode: subject.Code,
				FacultyID:   assignment.FacultyID,
				TermID:      term.ID,
				Status:      models.EnrollmentStatusEnrolled,
			})
		}
		if err := tx.CreateEnrollments(ctx, enrollments); err != nil {
			return err
		}

		result.Student = student
		result.Enrollments = enrollments
		return nil
	})
	s.metrics.ObserveDBQuery("registration", time.Since(started))
	if err != nil {
		mapped := registrationError(err)
		if appErrors.FromError(mapped).Status >= 500 {
			s.metrics.RecordEnrollment(OutcomeError)
			s.logger.Error("student registration failed", zap.Error(err))
		} else {
			s.metrics.RecordEnrollment(OutcomeRejected)
		}
		return nil, mapped
	}

	s.metrics.RecordEnrollment(OutcomeSuccess)
	s.logger.Info("student registered",
		zap.String("student_id", result.Student.ID),
		zap.String("course_id", req.CourseID),
		zap.Int("enrollments", len(result.Enrollments)),
	)
	return result, nil
}

func registrationError(err error) error {
	var appErr *appErrors.Error
	switch {
	case errors.As(err, &appErr):
		return appErr
	case database.IsUniqueViolation(err, "users_username_key"), database.IsUniqueViolation(err, "users_email_key"):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Username or email already exists")
	case database.IsUniqueViolation(err, ""):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "Enrollment already exists")
	case database.IsForeignKeyViolation(err, ""):
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	default:
		return internalError(err, "failed to enroll student")
	}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	filter.Normalize()
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list enrollments")
	}
	return enrollments, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a single enrollment.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}
	return enrollment, nil
}

// UpdateStatus changes the lifecycle status of an enrollment.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id string, req models.EnrollmentStatusRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, writeError(err, "enrollment", "", "")
	}
	return s.Get(ctx, id)
}

// Delete removes an enrollment with its grade.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "enrollment", "", "")
	}
	return nil
}
