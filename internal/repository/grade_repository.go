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

const gradeColumns = `id, enrollment_id, grade, created_at, updated_at`

// GradeRepository stores the single grade of each enrollment.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// FindByID loads a grade.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, `SELECT `+gradeColumns+` FROM grades WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find grade: %w", err)
	}
	return &grade, nil
}

// Upsert records the grade for an enrollment, replacing any previous value.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	grade.CreatedAt = now
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, enrollment_id, grade, created_at, updated_at)
VALUES (:id, :enrollment_id, :grade, :created_at, :updated_at)
ON CONFLICT (enrollment_id) DO UPDATE SET grade = EXCLUDED.grade, updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, grade)
	if err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&grade.ID, &grade.CreatedAt); err != nil {
			return fmt.Errorf("scan grade: %w", err)
		}
	}
	return rows.Err()
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return expectAffected(res, "delete grade")
}
