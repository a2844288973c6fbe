package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type facultyRepository interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.FacultyDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.FacultyDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.FacultyDetail, error)
	CreateWithUser(ctx context.Context, user *models.User, faculty *models.Faculty) error
	Update(ctx context.Context, faculty *models.Faculty, creds *models.CredentialChange) error
}

// FacultyService lets administrators manage faculty accounts.
type FacultyService struct {
	repo      facultyRepository
	users     userAccountStore
	hasher    passwordHasher
	validator *validation.Validator
	logger    *zap.Logger
}

// NewFacultyService constructs a FacultyService.
func NewFacultyService(repo facultyRepository, users userAccountStore, hasher passwordHasher, validate *validation.Validator, logger *zap.Logger) *FacultyService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyService{repo: repo, users: users, hasher: hasher, validator: validate, logger: logger}
}

// List returns faculty members with pagination metadata.
func (s *FacultyService) List(ctx context.Context, filter models.ListFilter) ([]models.FacultyDetail, *models.Pagination, error) {
	filter.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list faculty")
	}
	return items, models.NewPagination(filter, total), nil
}

// Get returns a faculty member.
func (s *FacultyService) Get(ctx context.Context, id string) (*models.FacultyDetail, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "faculty")
	}
	return item, nil
}

// Create registers a faculty account and profile together.
func (s *FacultyService) Create(ctx context.Context, req models.CreateStaffRequest) (*models.FacultyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}
	user := staffAccount(req, models.RoleFaculty, hash)
	faculty := &models.Faculty{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		ContactNo:  req.ContactNo,
	}
	if err := s.repo.CreateWithUser(ctx, user, faculty); err != nil {
		return nil, writeError(err, "faculty", "Username or email already exists", "")
	}
	s.logger.Info("faculty created", zap.String("faculty_id", faculty.ID))
	return &models.FacultyDetail{Faculty: *faculty, Username: user.Username, Email: user.Email}, nil
}

// Update patches the profile and, optionally, the credentials.
func (s *FacultyService) Update(ctx context.Context, id string, req models.UpdateStaffRequest) (*models.FacultyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	faculty := current.Faculty
	patchString(&faculty.FirstName, req.FirstName)
	patchOptional(&faculty.MiddleName, req.MiddleName)
	patchString(&faculty.LastName, req.LastName)
	patchString(&faculty.ContactNo, req.ContactNo)
	creds, err := credentialChange(s.hasher, current.Email, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &faculty, creds); err != nil {
		return nil, writeError(err, "faculty", "Email already exists", "")
	}
	return s.Get(ctx, faculty.ID)
}

// Delete removes the faculty account. Faculty still teaching enrolled
// students cannot be removed.
func (s *FacultyService) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, current.UserID); err != nil {
		return writeError(err, "faculty", "", "Faculty still has enrollments")
	}
	return nil
}
