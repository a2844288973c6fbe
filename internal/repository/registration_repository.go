package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// RegistrationTx exposes the statements a student registration needs, all
// bound to one database transaction.
type RegistrationTx interface {
	CourseExists(ctx context.Context, courseID string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	CreateStudent(ctx context.Context, student *models.Student) error
	FindActiveTerm(ctx context.Context) (*models.Term, error)
	ListCourseSubjects(ctx context.Context, courseID string) ([]models.Subject, error)
	FindSubjectFaculty(ctx context.Context, subjectCode string) (*models.SubjectFaculty, error)
	CreateEnrollments(ctx context.Context, enrollments []models.Enrollment) error
}

// RegistrationRepository runs student registrations atomically.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// WithinTx calls fn with a transaction scoped RegistrationTx. The transaction
// commits only when fn returns nil.
func (r *RegistrationRepository) WithinTx(ctx context.Context, fn func(RegistrationTx) error) error {
	return withTx(ctx, r.db, "registration", func(tx *sqlx.Tx) error {
		return fn(&registrationTx{q: tx})
	})
}

type registrationTx struct {
	q queryer
}

func (t *registrationTx) CourseExists(ctx context.Context, courseID string) (bool, error) {
	var exists bool
	if err := t.q.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, courseID); err != nil {
		return false, fmt.Errorf("check course: %w", err)
	}
	return exists, nil
}

func (t *registrationTx) CreateUser(ctx context.Context, user *models.User) error {
	return insertUser(ctx, t.q, user)
}

func (t *registrationTx) CreateStudent(ctx context.Context, student *models.Student) error {
	return insertStudent(ctx, t.q, student)
}

func (t *registrationTx) FindActiveTerm(ctx context.Context) (*models.Term, error) {
	return findActiveTerm(ctx, t.q)
}

func (t *registrationTx) ListCourseSubjects(ctx context.Context, courseID string) ([]models.Subject, error) {
	return listCourseSubjects(ctx, t.q, courseID)
}

func (t *registrationTx) FindSubjectFaculty(ctx context.Context, subjectCode string) (*models.SubjectFaculty, error) {
	return findSubjectFaculty(ctx, t.q, subjectCode)
}

func (t *registrationTx) CreateEnrollments(ctx context.Context, enrollments []models.Enrollment) error {
	for i := range enrollments {
		if err := insertEnrollment(ctx, t.q, &enrollments[i]); err != nil {
			return err
		}
	}
	return nil
}
