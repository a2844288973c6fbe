// Package session issues and verifies the signed session token carried in the
// session cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/sis-api/internal/models"
)

// DefaultTTL is the validity window of an issued session.
const DefaultTTL = 3 * time.Hour

// Claims is the identity carried by a session token.
type Claims struct {
	UserID   string      `json:"userId"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Expiry returns the expiry time, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Token is a freshly signed session.
type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
	Claims    *Claims
}

// Codec signs and verifies HS256 session tokens with a process wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec. A non positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured validity window.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a session for user.
func (c *Codec) Issue(user *models.User) (*Token, error) {
	if user == nil || user.ID == "" {
		return nil, errors.New("session requires a persisted user")
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("cannot issue session for role %q", user.Role)
	}

	issuedAt := c.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(c.ttl)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &Token{Value: signed, ID: claims.ID, ExpiresAt: expiresAt, Claims: claims}, nil
}

// Decode verifies raw and returns its claims. It fails closed: any problem
// with the token (missing, malformed, bad signature, expired, wrong algorithm,
// unknown role) yields false and never an error.
func (c *Codec) Decode(raw string) (*Claims, bool) {
	if raw == "" {
		return nil, false
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" || !claims.Role.Valid() {
		return nil, false
	}
	return claims, true
}
