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

const facultyDetailSelect = `SELECT f.id, f.user_id, f.first_name, f.middle_name, f.last_name, f.contact_no, f.created_at, f.updated_at, u.username, u.email FROM faculty f JOIN users u ON u.id = f.user_id`

// FacultyRepository manages persistence for faculty profiles.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository constructs a FacultyRepository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// List returns faculty matching filters along with total count.
func (r *FacultyRepository) List(ctx context.Context, filter models.ListFilter) ([]models.FacultyDetail, int, error) {
	filter.Normalize()
	var cond conditions
	if filter.Search != "" {
		cond.add("(LOWER(f.first_name) LIKE ? OR LOWER(f.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", likePattern(filter.Search))
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"lastName":  "f.last_name",
		"firstName": "f.first_name",
		"createdAt": "f.created_at",
	}, "lastName")
	query := fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d", facultyDetailSelect, cond.where(), order, filter.PageSize, filter.Offset())

	var faculty []models.FacultyDetail
	if err := r.db.SelectContext(ctx, &faculty, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list faculty: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM faculty f JOIN users u ON u.id = f.user_id" + cond.where()
	if err := r.db.GetContext(ctx, &total, countQuery, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count faculty: %w", err)
	}
	return faculty, total, nil
}

// FindByID returns a faculty member with account details.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*models.FacultyDetail, error) {
	return r.findOne(ctx, facultyDetailSelect+" WHERE f.id = $1", id)
}

// FindByUserID returns the faculty profile owned by an account.
func (r *FacultyRepository) FindByUserID(ctx context.Context, userID string) (*models.FacultyDetail, error) {
	return r.findOne(ctx, facultyDetailSelect+" WHERE f.user_id = $1", userID)
}

func (r *FacultyRepository) findOne(ctx context.Context, query, arg string) (*models.FacultyDetail, error) {
	var faculty models.FacultyDetail
	if err := r.db.GetContext(ctx, &faculty, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find faculty: %w", err)
	}
	return &faculty, nil
}

// CreateWithUser inserts the account and its faculty profile atomically.
func (r *FacultyRepository) CreateWithUser(ctx context.Context, user *models.User, faculty *models.Faculty) error {
	return withTx(ctx, r.db, "create faculty", func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		if faculty.ID == "" {
			faculty.ID = uuid.NewString()
		}
		faculty.UserID = user.ID
		faculty.CreatedAt = user.CreatedAt
		faculty.UpdatedAt = user.UpdatedAt

		const query = `INSERT INTO faculty (id, user_id, first_name, middle_name, last_name, contact_no, created_at, updated_at) VALUES (:id, :user_id, :first_name, :middle_name, :last_name, :contact_no, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, faculty); err != nil {
			return fmt.Errorf("create faculty: %w", err)
		}
		return nil
	})
}

// Update saves the profile. When creds is set the account email or password
// changes in the same transaction.
func (r *FacultyRepository) Update(ctx context.Context, faculty *models.Faculty, creds *models.CredentialChange) error {
	faculty.UpdatedAt = time.Now().UTC()
	return updateProfile(ctx, r.db, "update faculty", faculty.UserID, creds, func(q queryer) error {
		const query = `UPDATE faculty SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name, contact_no = :contact_no, updated_at = :updated_at WHERE id = :id`
		res, err := q.NamedExecContext(ctx, query, faculty)
		if err != nil {
			return fmt.Errorf("update faculty: %w", err)
		}
		return expectAffected(res, "update faculty")
	})
}
