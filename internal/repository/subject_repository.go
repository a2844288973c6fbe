package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const subjectColumns = `code, name, description, units, created_at, updated_at`

// SubjectRepository persists the subject catalog.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching the search term with total count.
func (r *SubjectRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Subject, int, error) {
	filter.Normalize()
	var cond conditions
	if filter.Search != "" {
		cond.add("(LOWER(code) LIKE ? OR LOWER(name) LIKE ?)", likePattern(filter.Search))
	}
	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"subjectCode": "code",
		"subjectName": "name",
		"units":       "units",
	}, "subjectCode")

	query := fmt.Sprintf("SELECT %s FROM subjects%s%s LIMIT %d OFFSET %d", subjectColumns, cond.where(), order, filter.PageSize, filter.Offset())
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM subjects"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByCode loads a subject by its code.
func (r *SubjectRepository) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, `SELECT `+subjectColumns+` FROM subjects WHERE code = $1`, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return &subject, nil
}

// ListByFaculty returns the subjects assigned to a faculty member.
func (r *SubjectRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.Subject, error) {
	const query = `SELECT s.code, s.name, s.description, s.units, s.created_at, s.updated_at FROM subjects s JOIN subject_faculty sf ON sf.subject_code = s.code WHERE sf.faculty_id = $1 ORDER BY s.code ASC`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, facultyID); err != nil {
		return nil, fmt.Errorf("list faculty subjects: %w", err)
	}
	return subjects, nil
}

// Create inserts a subject; a duplicate code is a unique violation.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	const query = `INSERT INTO subjects (code, name, description, units, created_at, updated_at) VALUES (:code, :name, :description, :units, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies the descriptive fields of a subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, description = :description, units = :units, updated_at = :updated_at WHERE code = :code`
	res, err := r.db.NamedExecContext(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return expectAffected(res, "update subject")
}

// Delete removes a subject. Subjects referenced by enrollments fail with a
// foreign key violation.
func (r *SubjectRepository) Delete(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return expectAffected(res, "delete subject")
}
