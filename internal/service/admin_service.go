package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type adminRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.AdminDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.AdminDetail, error)
	CreateWithUser(ctx context.Context, user *models.User, admin *models.Admin) error
	Update(ctx context.Context, admin *models.Admin, creds *models.CredentialChange) error
}

// AdminService manages administrator accounts.
type AdminService struct {
	repo      adminRepository
	users     userAccountStore
	hasher    passwordHasher
	validator *validation.Validator
	logger    *zap.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(repo adminRepository, users userAccountStore, hasher passwordHasher, validate *validation.Validator, logger *zap.Logger) *AdminService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, users: users, hasher: hasher, validator: validate, logger: logger}
}

// List returns admins with pagination metadata.
func (s *AdminService) List(ctx context.Context, filter models.ListFilter) ([]models.AdminDetail, *models.Pagination, error) {
	filter.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list admins")
	}
	return items, models.NewPagination(filter, total), nil
}

// Get returns an admin.
func (s *AdminService) Get(ctx context.Context, id string) (*models.AdminDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "admin")
	}
	return item, nil
}

// Create registers an admin account and profile together.
func (s *AdminService) Create(ctx context.Context, req models.CreateStaffRequest) (*models.AdminDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	user := staffAccount(req, models.RoleAdmin, hash)
	admin := &models.Admin{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		ContactNo:  req.ContactNo,
	}
	if err := s.repo.CreateWithUser(ctx, user, admin); err != nil {
		return nil, writeError(err, "admin", "Username or email already exists", "")
	}
	s.logger.Info("admin created", zap.String("admin_id", admin.ID), zap.String("username", user.Username))
	return &models.AdminDetail{Admin: *admin, Username: user.Username, Email: user.Email}, nil
}

// Update patches the profile and, optionally, the credentials.
func (s *AdminService) Update(ctx context.Context, id string, req models.UpdateStaffRequest) (*models.AdminDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	admin := current.Admin
	patchString(&admin.FirstName, req.FirstName)
	patchOptional(&admin.MiddleName, req.MiddleName)
	patchString(&admin.LastName, req.LastName)
	patchString(&admin.ContactNo, req.ContactNo)
	creds, err := credentialChange(s.hasher, current.Email, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &admin, creds); err != nil {
		return nil, writeError(err, "admin", "Email already exists", "")
	}
	return s.Get(ctx, id)
}

// Delete removes an admin account other than the caller's own.
func (s *AdminService) Delete(ctx context.Context, callerUserID, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.UserID == callerUserID {
		return appErrors.Clone(appErrors.ErrForbidden, "You cannot delete your own account")
	}
	if err := s.users.Delete(ctx, current.UserID); err != nil {
		return writeError(err, "admin", "", "")
	}
	s.logger.Info("admin deleted", zap.String("admin_id", id), zap.String("deleted_by", callerUserID))
	return nil
}
