package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type facultyProfileStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.FacultyDetail, error)
	Update(ctx context.Context, faculty *models.Faculty, creds *models.CredentialChange) error
}

type facultySubjectLister interface {
	ListByFaculty(ctx context.Context, facultyID string) ([]models.Subject, error)
}

type classRoster interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	HasSharedEnrollment(ctx context.Context, facultyID, studentID string) (bool, error)
}

type studentFinder interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

// FacultyPortalService serves the faculty member's own profile and classes.
type FacultyPortalService struct {
	faculty     facultyProfileStore
	subjects    facultySubjectLister
	enrollments classRoster
	students    studentFinder
	validator   *validation.Validator
	logger      *zap.Logger
}

// NewFacultyPortalService constructs a FacultyPortalService.
func NewFacultyPortalService(faculty facultyProfileStore, subjects facultySubjectLister, enrollments classRoster, students studentFinder, validate *validation.Validator, logger *zap.Logger) *FacultyPortalService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyPortalService{faculty: faculty, subjects: subjects, enrollments: enrollments, students: students, validator: validate, logger: logger}
}

// Profile returns the caller's faculty profile.
func (s *FacultyPortalService) Profile(ctx context.Context, userID string) (*models.FacultyDetail, error) {
	faculty, err := s.faculty.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "faculty profile")
	}
	return faculty, nil
}

// UpdateProfile patches the caller's names and contact number.
func (s *FacultyPortalService) UpdateProfile(ctx context.Context, userID string, req models.FacultySelfUpdateRequest) (*models.FacultyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	faculty := current.Faculty
	patchString(&faculty.FirstName, req.FirstName)
	patchOptional(&faculty.MiddleName, req.MiddleName)
	patchString(&faculty.LastName, req.LastName)
	patchString(&faculty.ContactNo, req.ContactNo)
	if err := s.faculty.Update(ctx, &faculty, nil); err != nil {
		return nil, writeError(err, "faculty profile", "", "")
	}
	return s.Profile(ctx, userID)
}

// Subjects lists the subjects assigned to the caller.
func (s *FacultyPortalService) Subjects(ctx context.Context, userID string) ([]models.Subject, error) {
	faculty, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjects.ListByFaculty(ctx, faculty.ID)
	if err != nil {
		return nil, internalError(err, "failed to list faculty subjects")
	}
	return subjects, nil
}

// Classes lists the admitted students enrolled with the caller, optionally
// narrowed to one subject through filter.SubjectCode.
func (s *FacultyPortalService) Classes(ctx context.Context, userID string, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	faculty, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	filter.Normalize()
	filter.FacultyID = faculty.ID
	filter.AdmittedOnly = true
	filter.GradedOnly = false
	items, total, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list classes")
	}
	return items, models.NewPagination(filter.ListFilter, total), nil
}

// ClassStudent returns a student the caller teaches together with the
// enrollments they share.
func (s *FacultyPortalService) ClassStudent(ctx context.Context, userID, studentID string) (*StudentRecord, error) {
	faculty, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	shared, err := s.enrollments.HasSharedEnrollment(ctx, faculty.ID, studentID)
	if err != nil {
		return nil, internalError(err, "failed to check enrollment")
	}
	if !shared {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Student is not enrolled in your classes")
	}
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student")
	}
	if !student.Admitted {
		return nil, appErrors.ErrNotAdmitted
	}
	filter := models.EnrollmentFilter{FacultyID: faculty.ID, StudentID: studentID}
	enrollments, err := allEnrollments(ctx, s.enrollments, filter)
	if err != nil {
		return nil, internalError(err, "failed to list shared enrollments")
	}
	return &StudentRecord{StudentDetail: *student, Enrollments: enrollments}, nil
}
