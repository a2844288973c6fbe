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

const studentColumns = `s.id, s.user_id, s.course_id, s.first_name, s.middle_name, s.last_name, s.address, s.date_enrolled, s.sex, s.place_of_birth, s.nationality, s.religion, s.contact_no, s.civil_status, s.admitted, s.created_at, s.updated_at`

const studentDetailSelect = `SELECT ` + studentColumns + `, u.username, u.email, c.course_name FROM students s JOIN users u ON u.id = s.user_id JOIN courses c ON c.id = s.course_id`

const studentDetailFrom = ` FROM students s JOIN users u ON u.id = s.user_id JOIN courses c ON c.id = s.course_id`

// StudentRepository handles persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a repository instance.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students filtered by course, admission and search.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	filter.Normalize()
	var cond conditions
	if filter.CourseID != "" {
		cond.add("s.course_id = ?", filter.CourseID)
	}
	if filter.Admitted != nil {
		cond.add("s.admitted = ?", *filter.Admitted)
	}
	if filter.Search != "" {
		cond.add("(LOWER(s.first_name) LIKE ? OR LOWER(s.last_name) LIKE ? OR LOWER(u.username) LIKE ? OR LOWER(u.email) LIKE ?)", likePattern(filter.Search))
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"lastName":     "s.last_name",
		"firstName":    "s.first_name",
		"dateEnrolled": "s.date_enrolled",
		"createdAt":    "s.created_at",
	}, "lastName")
	query := fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d", studentDetailSelect, cond.where(), order, filter.PageSize, filter.Offset())

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+studentDetailFrom+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student with account and course details.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	return r.findOne(ctx, studentDetailSelect+" WHERE s.id = $1", id)
}

// FindByUserID fetches the student profile owned by an account.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	return r.findOne(ctx, studentDetailSelect+" WHERE s.user_id = $1", userID)
}

func (r *StudentRepository) findOne(ctx context.Context, query, arg string) (*models.StudentDetail, error) {
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Update saves the profile. When creds is set the account email or password
// changes in the same transaction.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, creds *models.CredentialChange) error {
	student.UpdatedAt = time.Now().UTC()
	return updateProfile(ctx, r.db, "update student", student.UserID, creds, func(q queryer) error {
		const query = `UPDATE students SET course_id = :course_id, first_name = :first_name, middle_name = :middle_name, last_name = :last_name, address = :address, date_enrolled = :date_enrolled, sex = :sex, place_of_birth = :place_of_birth, nationality = :nationality, religion = :religion, contact_no = :contact_no, civil_status = :civil_status, admitted = :admitted, updated_at = :updated_at WHERE id = :id`
		res, err := q.NamedExecContext(ctx, query, student)
		if err != nil {
			return fmt.Errorf("update student: %w", err)
		}
		return expectAffected(res, "update student")
	})
}

// SetAdmitted flips the admission gate of a student.
func (r *StudentRepository) SetAdmitted(ctx context.Context, id string, admitted bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE students SET admitted = $2, updated_at = $3 WHERE id = $1`, id, admitted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set student admission: %w", err)
	}
	return expectAffected(res, "set student admission")
}

func insertStudent(ctx context.Context, q queryer, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, user_id, course_id, first_name, middle_name, last_name, address, date_enrolled, sex, place_of_birth, nationality, religion, contact_no, civil_status, admitted, created_at, updated_at) VALUES (:id, :user_id, :course_id, :first_name, :middle_name, :last_name, :address, :date_enrolled, :sex, :place_of_birth, :nationality, :religion, :contact_no, :civil_status, :admitted, :created_at, :updated_at)`
	if _, err := q.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
