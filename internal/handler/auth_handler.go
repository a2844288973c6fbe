package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/internal/session"
	"github.com/noah-isme/sis-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*service.LoginResult, error)
	Logout(ctx context.Context, claims *session.Claims) error
	Session(claims *session.Claims) (*service.SessionView, error)
	Profile(ctx context.Context, claims *session.Claims) (*service.ProfileView, error)
	WriteSession(w http.ResponseWriter, token *session.Token)
	ClearSession(w http.ResponseWriter)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username or email and password. The session is returned as an HttpOnly cookie.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.service.WriteSession(c.Writer, res.Token)
	response.Body(c, http.StatusOK, res)
}

// Logout godoc
// @Summary Logout current session
// @Description Clears the session cookie. Calling it without a session is not an error.
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.service.ClearSession(c.Writer)
	response.NoContent(c)
}

// Session godoc
// @Summary Inspect session
// @Description Returns the decoded session of the caller
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorBody
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	view, err := h.service.Session(claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Check godoc
// @Summary Check authentication
// @Description Returns the session when signed in, otherwise the public role
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/check [get]
func (h *AuthHandler) Check(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.JSON(c, http.StatusOK, gin.H{"role": "public"}, nil)
		return
	}
	view, err := h.service.Session(claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated user and role profile
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorBody
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	view, err := h.service.Profile(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
