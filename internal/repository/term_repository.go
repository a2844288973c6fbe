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

const termColumns = `id, academic_year, semester, is_active, created_at, updated_at`

// TermRepository manages academic terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository builds a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns every term, newest academic year first.
func (r *TermRepository) List(ctx context.Context) ([]models.Term, error) {
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, `SELECT `+termColumns+` FROM terms ORDER BY academic_year DESC, semester DESC`); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// FindByID loads a term.
func (r *TermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	var term models.Term
	if err := r.db.GetContext(ctx, &term, `SELECT `+termColumns+` FROM terms WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find term: %w", err)
	}
	return &term, nil
}

// FindActive returns the active term or sql.ErrNoRows.
func (r *TermRepository) FindActive(ctx context.Context) (*models.Term, error) {
	return findActiveTerm(ctx, r.db)
}

// Create inserts a term. New terms start inactive.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) error {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	term.IsActive = false
	term.CreatedAt = now
	term.UpdatedAt = now
	const query = `INSERT INTO terms (id, academic_year, semester, is_active, created_at, updated_at) VALUES (:id, :academic_year, :semester, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, term); err != nil {
		return fmt.Errorf("create term: %w", err)
	}
	return nil
}

// Update changes the year and semester of a term.
func (r *TermRepository) Update(ctx context.Context, term *models.Term) error {
	term.UpdatedAt = time.Now().UTC()
	const query = `UPDATE terms SET academic_year = :academic_year, semester = :semester, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, term)
	if err != nil {
		return fmt.Errorf("update term: %w", err)
	}
	return expectAffected(res, "update term")
}

// Delete removes a term.
func (r *TermRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete term: %w", err)
	}
	return expectAffected(res, "delete term")
}

// SetActive deactivates all other terms and activates the given one in a
// single transaction.
func (r *TermRepository) SetActive(ctx context.Context, id string) error {
	return withTx(ctx, r.db, "activate term", func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `UPDATE terms SET is_active = FALSE, updated_at = $2 WHERE is_active AND id <> $1`, id, now); err != nil {
			return fmt.Errorf("deactivate terms: %w", err)
		}
		res, err := tx.ExecContext(ctx, `UPDATE terms SET is_active = TRUE, updated_at = $2 WHERE id = $1`, id, now)
		if err != nil {
			return fmt.Errorf("activate term: %w", err)
		}
		return expectAffected(res, "activate term")
	})
}

func findActiveTerm(ctx context.Context, q queryer) (*models.Term, error) {
	var term models.Term
	if err := sqlx.GetContext(ctx, q, &term, `SELECT `+termColumns+` FROM terms WHERE is_active LIMIT 1`); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find active term: %w", err)
	}
	return &term, nil
}
