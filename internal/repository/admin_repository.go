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

const adminDetailSelect = `SELECT a.id, a.user_id, a.first_name, a.middle_name, a.last_name, a.contact_no, a.created_at, a.updated_at, u.username, u.email FROM admins a JOIN users u ON u.id = a.user_id`

// AdminRepository manages persistence for admin profiles.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// List returns admins matching filters along with total count.
func (r *AdminRepository) List(ctx context.Context, filter models.ListFilter) ([]models.AdminDetail, int, error) {
	filter.Normalize()
	var cond conditions
	if filter.Search != "" {
		cond.add("(LOWER(a.first_name) LIKE ? OR LOWER(a.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", likePattern(filter.Search))
	}

	order := orderBy(filter.SortBy, filter.SortOrder, map[string]string{
		"lastName":  "a.last_name",
		"firstName": "a.first_name",
		"createdAt": "a.created_at",
	}, "lastName")
	query := fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d", adminDetailSelect, cond.where(), order, filter.PageSize, filter.Offset())

	var admins []models.AdminDetail
	if err := r.db.SelectContext(ctx, &admins, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list admins: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM admins a JOIN users u ON u.id = a.user_id" + cond.where()
	if err := r.db.GetContext(ctx, &total, countQuery, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count admins: %w", err)
	}
	return admins, total, nil
}

// FindByID returns an admin with account details.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.AdminDetail, error) {
	return r.findOne(ctx, adminDetailSelect+" WHERE a.id = $1", id)
}

// FindByUserID returns the admin profile owned by an account.
func (r *AdminRepository) FindByUserID(ctx context.Context, userID string) (*models.AdminDetail, error) {
	return r.findOne(ctx, adminDetailSelect+" WHERE a.user_id = $1", userID)
}

func (r *AdminRepository) findOne(ctx context.Context, query, arg string) (*models.AdminDetail, error) {
	var admin models.AdminDetail
	if err := r.db.GetContext(ctx, &admin, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return &admin, nil
}

// CreateWithUser inserts the account and its admin profile atomically.
func (r *AdminRepository) CreateWithUser(ctx context.Context, user *models.User, admin *models.Admin) error {
	return withTx(ctx, r.db, "create admin", func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		if admin.ID == "" {
			admin.ID = uuid.NewString()
		}
		admin.UserID = user.ID
		admin.CreatedAt = user.CreatedAt
		admin.UpdatedAt = user.UpdatedAt

		const query = `INSERT INTO admins (id, user_id, first_name, middle_name, last_name, contact_no, created_at, updated_at) VALUES (:id, :user_id, :first_name, :middle_name, :last_name, :contact_no, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, admin); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		return nil
	})
}

// Update saves the profile. When creds is set the account email or password
// changes in the same transaction.
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin, creds *models.CredentialChange) error {
	admin.UpdatedAt = time.Now().UTC()
	return updateProfile(ctx, r.db, "update admin", admin.UserID, creds, func(q queryer) error {
		const query = `UPDATE admins SET first_name = :first_name, middle_name = :middle_name, last_name = :last_name, contact_no = :contact_no, updated_at = :updated_at WHERE id = :id`
		res, err := q.NamedExecContext(ctx, query, admin)
		if err != nil {
			return fmt.Errorf("update admin: %w", err)
		}
		return expectAffected(res, "update admin")
	})
}
