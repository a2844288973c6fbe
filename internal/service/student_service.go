package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
	Update(ctx context.Context, student *models.Student, creds *models.CredentialChange) error
	SetAdmitted(ctx context.Context, id string, admitted bool) error
}

type enrollmentLister interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
}

// StudentRecord is a student with the enrollments of every term.
type StudentRecord struct {
	models.StudentDetail
	Enrollments []models.EnrollmentDetail `json:"enrollments"`
}

// StudentService lets administrators review, admit and maintain students.
type StudentService struct {
	repo        studentRepository
	enrollments enrollmentLister
	users       userAccountStore
	validator   *validation.Validator
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, enrollments enrollmentLister, users userAccountStore, validate *validation.Validator, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, users: users, validator: validate, logger: logger}
}

// List returns students. Only admitted students are listed unless the filter
// asks for another admission state.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	filter.Normalize()
	if filter.Admitted == nil {
		admitted := true
		filter.Admitted = &admitted
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list students")
	}
	return students, models.NewPagination(filter.ListFilter, total), nil
}

// Get returns a student with all enrollments.
func (s *StudentService) Get(ctx context.Context, id string) (*StudentRecord, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	enrollments, err := allEnrollments(ctx, s.enrollments, models.EnrollmentFilter{StudentID: id})
	if err != nil {
		return nil, internalError(err, "failed to list student enrollments")
	}
	return &StudentRecord{StudentDetail: *student, Enrollments: enrollments}, nil
}

// Update patches the student profile.
func (s *StudentService) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*StudentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "student")
	}

	student := current.Student
	patchString(&student.CourseID, req.CourseID)
	patchString(&student.FirstName, req.FirstName)
	patchOptional(&student.MiddleName, req.MiddleName)
	patchString(&student.LastName, req.LastName)
	patchString(&student.Address, req.Address)
	patchString(&student.Sex, req.Sex)
	patchString(&student.PlaceOfBirth, req.PlaceOfBirth)
	patchString(&student.Nationality, req.Nationality)
	patchString(&student.Religion, req.Religion)
	patchString(&student.ContactNo, req.ContactNo)
	patchString(&student.CivilStatus, req.CivilStatus)
	if req.DateEnrolled != nil {
		date, err := time.Parse(validation.DateLayout, *req.DateEnrolled)
		if err != nil {
			return nil, validation.Invalid("dateEnrolled", "dateEnrolled must be a date formatted as YYYY-MM-DD")
		}
		student.DateEnrolled = date
	}

	if err := s.repo.Update(ctx, &student, nil); err != nil {
		return nil, writeError(err, "student", "", "course not found")
	}
	return s.Get(ctx, id)
}

// Admit grants portal access to a student.
func (s *StudentService) Admit(ctx context.Context, id string) (*StudentRecord, error) {
	if err := s.repo.SetAdmitted(ctx, id, true); err != nil {
		return nil, writeError(err, "student", "", "")
	}
	s.logger.Info("student admitted", zap.String("student_id", id))
	return s.Get(ctx, id)
}

// Delete removes the student account with its enrollments and grades.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "student")
	}
	if err := s.users.Delete(ctx, current.UserID); err != nil {
		return writeError(err, "student", "", "")
	}
	return nil
}
