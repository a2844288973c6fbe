package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

// UserRepository provides database access for accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByCredential returns the single user whose username or email equals
// credential. Ambiguous matches are reported as sql.ErrNoRows.
func (r *UserRepository) FindByCredential(ctx context.Context, credential string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = LOWER($1) LIMIT 2`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, strings.TrimSpace(credential)); err != nil {
		return nil, fmt.Errorf("find user by credential: %w", err)
	}
	if len(users) != 1 {
		return nil, sql.ErrNoRows
	}
	return &users[0], nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return insertUser(ctx, r.db, user)
}

// updateProfile runs update and, when creds is set, the account change of
// userID in one transaction.
func updateProfile(ctx context.Context, db *sqlx.DB, label, userID string, creds *models.CredentialChange, update func(q queryer) error) error {
	if creds == nil {
		return update(db)
	}
	return withTx(ctx, db, label, func(tx *sqlx.Tx) error {
		if err := update(tx); err != nil {
			return err
		}
		return updateCredentials(ctx, tx, userID, *creds)
	})
}

// updateCredentials changes the email and, when PasswordHash is not empty, the
// password of an account.
func updateCredentials(ctx context.Context, q queryer, userID string, creds models.CredentialChange) error {
	query := `UPDATE users SET email = $2, updated_at = $3`
	args := []interface{}{userID, strings.ToLower(creds.Email), time.Now().UTC()}
	if creds.PasswordHash != "" {
		query += `, password_hash = $4`
		args = append(args, creds.PasswordHash)
	}
	query += ` WHERE id = $1`

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user credentials: %w", err)
	}
	return expectAffected(res, "update user credentials")
}

// Delete removes an account; profiles, enrollments and grades cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res, "delete user")
}

func insertUser(ctx context.Context, q queryer, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	const query = `INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :role, :created_at, :updated_at)`
	if _, err := q.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
