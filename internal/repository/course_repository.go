package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const courseColumns = `id, course_name, department, created_at, updated_at`

// CourseRepository persists degree programs and their subject mapping.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns every course ordered by name.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY course_name ASC`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID loads a course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, course_name, department, created_at, updated_at) VALUES (:id, :course_name, :department, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update modifies a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_name = :course_name, department = :department, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return expectAffected(res, "update course")
}

// Delete removes a course. Courses still referenced by students fail with a
// foreign key violation.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return expectAffected(res, "delete course")
}

// ListSubjects returns the subjects mapped to a course.
func (r *CourseRepository) ListSubjects(ctx context.Context, courseID string) ([]models.Subject, error) {
	return listCourseSubjects(ctx, r.db, courseID)
}

// AddSubject maps a subject to a course; existing mappings are left as is.
func (r *CourseRepository) AddSubject(ctx context.Context, courseID, subjectCode string) error {
	const query = `INSERT INTO course_subjects (course_id, subject_code) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, courseID, subjectCode); err != nil {
		return fmt.Errorf("add course subject: %w", err)
	}
	return nil
}

// RemoveSubject unmaps a subject from a course.
func (r *CourseRepository) RemoveSubject(ctx context.Context, courseID, subjectCode string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM course_subjects WHERE course_id = $1 AND subject_code = $2`, courseID, subjectCode)
	if err != nil {
		return fmt.Errorf("remove course subject: %w", err)
	}
	return expectAffected(res, "remove course subject")
}

func listCourseSubjects(ctx context.Context, q queryer, courseID string) ([]models.Subject, error) {
	const query = `SELECT s.code, s.name, s.description, s.units, s.created_at, s.updated_at FROM subjects s JOIN course_subjects cs ON cs.subject_code = s.code WHERE cs.course_id = $1 ORDER BY s.code ASC`
	var subjects []models.Subject
	if err := sqlx.SelectContext(ctx, q, &subjects, query, courseID); err != nil {
		return nil, fmt.Errorf("list course subjects: %w", err)
	}
	return subjects, nil
}
