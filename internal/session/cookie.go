package session

import (
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "session"

// Cookie writes and reads the session cookie.
type Cookie struct {
	Name   string
	Secure bool
}

// NewCookie returns cookie settings; Secure should only be set in production.
func NewCookie(name string, secure bool) Cookie {
	if name == "" {
		name = DefaultCookieName
	}
	return Cookie{Name: name, Secure: secure}
}

// Write stores token in an HttpOnly, SameSite=Strict cookie scoped to the
// whole application whose expiry matches the token.
func (c Cookie) Write(w http.ResponseWriter, token *Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   int(time.Until(token.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the session cookie.
func (c Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFrom returns the raw session token from the cookie, falling back to an
// Authorization bearer header for non browser clients.
func (c Cookie) TokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(c.Name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
