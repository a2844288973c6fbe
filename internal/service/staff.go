package service

import (
	"context"
	"strings"

	"github.com/noah-isme/sis-api/internal/models"
)

type userAccountStore interface {
	Delete(ctx context.Context, id string) error
}

// staffAccount builds the account for a new faculty or admin.
func staffAccount(req models.CreateStaffRequest, role models.Role, hash string) *models.User {
	return &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
}

func patchString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func patchOptional(dst **string, value *string) {
	if value == nil {
		return
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		*dst = nil
		return
	}
	*dst = &trimmed
}

// credentialChange builds the optional email or password change of an
// account. It returns nil when neither is requested; currentEmail is kept when
// only the password changes.
func credentialChange(hasher passwordHasher, currentEmail string, email, password *string) (*models.CredentialChange, error) {
	if email == nil && password == nil {
		return nil, nil
	}
	change := &models.CredentialChange{Email: currentEmail}
	if email != nil {
		change.Email = strings.TrimSpace(*email)
	}
	if password != nil {
		hash, err := hasher.Hash(*password)
		if err != nil {
			return nil, internalError(err, "failed to hash password")
		}
		change.PasswordHash = hash
	}
	return change, nil
}
