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

const subjectFacultyDetailSelect = `SELECT sf.id, sf.subject_code, sf.faculty_id, sf.created_at, s.name AS subject_name, f.first_name AS faculty_first_name, f.last_name AS faculty_last_name FROM subject_faculty sf JOIN subjects s ON s.code = sf.subject_code JOIN faculty f ON f.id = sf.faculty_id`

// SubjectFacultyRepository persists faculty to subject assignments.
type SubjectFacultyRepository struct {
	db *sqlx.DB
}

// NewSubjectFacultyRepository creates a SubjectFacultyRepository.
func NewSubjectFacultyRepository(db *sqlx.DB) *SubjectFacultyRepository {
	return &SubjectFacultyRepository{db: db}
}

// List returns assignments filtered by subject or faculty.
func (r *SubjectFacultyRepository) List(ctx context.Context, filter models.SubjectFacultyFilter) ([]models.SubjectFacultyDetail, error) {
	var cond conditions
	if filter.SubjectCode != "" {
		cond.add("sf.subject_code = ?", filter.SubjectCode)
	}
	if filter.FacultyID != "" {
		cond.add("sf.faculty_id = ?", filter.FacultyID)
	}
	var items []models.SubjectFacultyDetail
	query := subjectFacultyDetailSelect + cond.where() + " ORDER BY sf.subject_code ASC, sf.created_at ASC"
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list subject faculty: %w", err)
	}
	return items, nil
}

// FindByID loads an assignment.
func (r *SubjectFacultyRepository) FindByID(ctx context.Context, id string) (*models.SubjectFacultyDetail, error) {
	var item models.SubjectFacultyDetail
	if err := r.db.GetContext(ctx, &item, subjectFacultyDetailSelect+" WHERE sf.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find subject faculty: %w", err)
	}
	return &item, nil
}

// Exists reports whether the faculty member is already assigned to the subject.
func (r *SubjectFacultyRepository) Exists(ctx context.Context, subjectCode, facultyID string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM subject_faculty WHERE subject_code = $1 AND faculty_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, subjectCode, facultyID); err != nil {
		return false, fmt.Errorf("check subject faculty: %w", err)
	}
	return exists, nil
}

// Create stores an assignment. The (subject, faculty) pair is unique.
func (r *SubjectFacultyRepository) Create(ctx context.Context, item *models.SubjectFaculty) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO subject_faculty (id, subject_code, faculty_id, created_at) VALUES (:id, :subject_code, :faculty_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create subject faculty: %w", err)
	}
	return nil
}

// Delete removes an assignment.
func (r *SubjectFacultyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subject_faculty WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject faculty: %w", err)
	}
	return expectAffected(res, "delete subject faculty")
}

// findSubjectFaculty resolves the faculty teaching a subject. The earliest
// assignment wins when several exist.
func findSubjectFaculty(ctx context.Context, q queryer, subjectCode string) (*models.SubjectFaculty, error) {
	const query = `SELECT id, subject_code, faculty_id, created_at FROM subject_faculty WHERE subject_code = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	var item models.SubjectFaculty
	if err := sqlx.GetContext(ctx, q, &item, query, subjectCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find subject faculty: %w", err)
	}
	return &item, nil
}
