package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/session"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/validation"
)

type authUserRepository interface {
	FindByCredential(ctx context.Context, credential string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type adminProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.AdminDetail, error)
}

type facultyProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.FacultyDetail, error)
}

type studentProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// AuthProfiles groups the stores used to resolve role profiles.
type AuthProfiles struct {
	Admins   adminProfileFinder
	Faculty  facultyProfileFinder
	Students studentProfileFinder
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Message string         `json:"message"`
	User    *models.User   `json:"user"`
	Token   *session.Token `json:"-"`
}

// ProfileView is the signed in user with its role profile.
type ProfileView struct {
	User    *models.User `json:"user"`
	Profile interface{}  `json:"profile,omitempty"`
}

// SessionView is the decoded session returned by the introspection endpoints.
type SessionView struct {
	UserID    string      `json:"userId"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// AuthService provides authentication use cases.
type AuthService struct {
	users     authUserRepository
	profiles  AuthProfiles
	hasher    passwordHasher
	codec     *session.Codec
	cookie    session.Cookie
	denylist  session.Denylist
	validator *validation.Validator
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, profiles AuthProfiles, hasher passwordHasher, codec *session.Codec, cookie session.Cookie, denylist session.Denylist, validate *validation.Validator, metrics *MetricsService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if denylist == nil {
		denylist = session.NopDenylist{}
	}
	return &AuthService{
		users:     users,
		profiles:  profiles,
		hasher:    hasher,
		codec:     codec,
		cookie:    cookie,
		denylist:  denylist,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Login authenticates a user by username or email and issues a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordLogin(OutcomeRejected)
		return nil, err
	}

	user, err := s.users.FindByCredential(ctx, req.Credential)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordLogin(OutcomeRejected)
			return nil, appErrors.ErrInvalidCredentials
		}
		s.metrics.RecordLogin(OutcomeError)
		return nil, internalError(err, "failed to fetch user")
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.metrics.RecordLogin(OutcomeRejected)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		s.metrics.RecordLogin(OutcomeError)
		return nil, internalError(err, "failed to issue session")
	}

	s.metrics.RecordLogin(OutcomeSuccess)
	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{Message: "Login successful", User: user, Token: token}, nil
}

// Logout revokes the session when revocation is enabled. A missing session is
// not an error.
func (s *AuthService) Logout(ctx context.Context, claims *session.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.Expiry()); err != nil {
		return internalError(err, "failed to revoke session")
	}
	s.logger.Info("user logged out", zap.String("user_id", claims.UserID))
	return nil
}

// Session describes the decoded session of the caller.
func (s *AuthService) Session(claims *session.Claims) (*SessionView, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return &SessionView{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.Expiry(),
	}, nil
}

// Authenticate decodes a raw session token and checks it against the
// denylist. Lookup failures are treated as revoked.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*session.Claims, error) {
	if raw == "" {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := s.codec.Decode(raw)
	if !ok {
		return nil, appErrors.ErrInvalidSession
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("session denylist lookup failed", zap.Error(err))
		return nil, appErrors.ErrInvalidSession
	}
	if revoked {
		return nil, appErrors.ErrInvalidSession
	}
	return claims, nil
}

// Profile loads the account and role profile of the signed in user.
func (s *AuthService) Profile(ctx context.Context, claims *session.Claims) (*ProfileView, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, lookupError(err, "user")
	}

	view := &ProfileView{User: user}
	switch claims.Role {
	case models.RoleAdmin:
		if s.profiles.Admins != nil {
			view.Profile, err = s.profiles.Admins.FindByUserID(ctx, user.ID)
		}
	case models.RoleFaculty:
		if s.profiles.Faculty != nil {
			view.Profile, err = s.profiles.Faculty.FindByUserID(ctx, user.ID)
		}
	case models.RoleStudent:
		if s.profiles.Students != nil {
			view.Profile, err = s.profiles.Students.FindByUserID(ctx, user.ID)
		}
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			view.Profile = nil
			return view, nil
		}
		return nil, internalError(err, "failed to load profile")
	}
	return view, nil
}

// TokenFromRequest extracts the raw session token.
func (s *AuthService) TokenFromRequest(r *http.Request) string {
	return s.cookie.TokenFrom(r)
}

// WriteSession sets the session cookie.
func (s *AuthService) WriteSession(w http.ResponseWriter, token *session.Token) {
	s.cookie.Write(w, token)
}

// ClearSession expires the session cookie.
func (s *AuthService) ClearSession(w http.ResponseWriter) {
	s.cookie.Clear(w)
}

// SessionTTL reports the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.codec.TTL()
}
