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

const enrollmentDetailFrom = ` FROM enrollments e
JOIN subjects sub ON sub.code = e.subject_code
JOIN students st ON st.id = e.student_id
JOIN courses c ON c.id = st.course_id
JOIN faculty f ON f.id = e.faculty_id
JOIN terms t ON t.id = e.term_id
LEFT JOIN grades g ON g.enrollment_id = e.id`

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.subject_code, e.faculty_id, e.term_id, e.status, e.created_at, e.updated_at,
sub.name AS subject_name, sub.units, st.first_name AS student_first_name, st.last_name AS student_last_name, st.admitted AS student_admitted,
c.course_name, f.first_name AS faculty_first_name, f.last_name AS faculty_last_name, t.academic_year, t.semester, g.grade` + enrollmentDetailFrom

// EnrollmentRepository reads and maintains enrollments. Creation happens
// through RegistrationRepository.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new repository instance.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments with subject, student, faculty, term and grade data.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	filter.Normalize()
	cond := enrollmentConditions(filter)

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"subjectCode": "e.subject_code",
		"lastName":    "st.last_name",
		"createdAt":   "e.created_at",
		"status":      "e.status",
	}, "subjectCode")
	// e.id breaks ties so consecutive pages never overlap.
	query := fmt.Sprintf("%s%s%s, e.id LIMIT %d OFFSET %d", enrollmentDetailSelect, cond.where(), order, filter.PageSize, filter.Offset())

	var items []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+enrollmentDetailFrom+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return items, total, nil
}

// FindDetailByID loads a single enrollment with its related data.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	var item models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &item, enrollmentDetailSelect+" WHERE e.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &item, nil
}

// UpdateStatus changes the lifecycle status of an enrollment.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update enrollment status: %w", err)
	}
	return expectAffected(res, "update enrollment status")
}

// Delete removes an enrollment and, by cascade, its grade.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return expectAffected(res, "delete enrollment")
}

// HasSharedEnrollment reports whether the student is enrolled in any class
// taught by the faculty member.
func (r *EnrollmentRepository) HasSharedEnrollment(ctx context.Context, facultyID, studentID string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE faculty_id = $1 AND student_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, facultyID, studentID); err != nil {
		return false, fmt.Errorf("check shared enrollment: %w", err)
	}
	return exists, nil
}

func enrollmentConditions(filter models.EnrollmentFilter) conditions {
	var cond conditions
	if filter.StudentID != "" {
		cond.add("e.student_id = ?", filter.StudentID)
	}
	if filter.FacultyID != "" {
		cond.add("e.faculty_id = ?", filter.FacultyID)
	}
	if filter.SubjectCode != "" {
		cond.add("e.subject_code = ?", filter.SubjectCode)
	}
	if filter.TermID != "" {
		cond.add("e.term_id = ?", filter.TermID)
	}
	if filter.Status != "" {
		cond.add("e.status = ?", string(filter.Status))
	}
	if filter.AdmittedOnly {
		cond.add("st.admitted = ?", true)
	}
	if filter.GradedOnly {
		cond.clauses = append(cond.clauses, "g.id IS NOT NULL")
	}
	if filter.Search != "" {
		cond.add("(LOWER(st.first_name) LIKE ? OR LOWER(st.last_name) LIKE ? OR LOWER(sub.name) LIKE ? OR LOWER(e.subject_code) LIKE ?)", likePattern(filter.Search))
	}
	return cond
}

func insertEnrollment(ctx context.Context, q queryer, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusEnrolled
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (id, student_id, subject_code, faculty_id, term_id, status, created_at, updated_at) VALUES (:id, :student_id, :subject_code, :faculty_id, :term_id, :status, :created_at, :updated_at)`
	if _, err := q.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}
