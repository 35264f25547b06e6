package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/dto"
	middlewarepkg "github.com/provisionexpertax/taxportal/internal/middleware"
	"github.com/provisionexpertax/taxportal/internal/service"
	"github.com/provisionexpertax/taxportal/internal/session"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// Register handles POST /api/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "unable to register user")
	}

	c.SetCookie(h.sessions.Cookie(result.Session))
	return Success(c, http.StatusCreated, "registration successful", loginResponse(result))
}

// Login handles POST /api/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	result, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "unable to authenticate")
	}

	c.SetCookie(h.sessions.Cookie(result.Session))
	return Success(c, http.StatusOK, "login successful", loginResponse(result))
}

// Logout handles POST /api/logout requests.
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, _ := middlewarepkg.IdentityFromContext(c)
	if err := h.authService.Logout(c.Request().Context(), identity.SessionID); err != nil {
		return respondError(c, err, "unable to log out")
	}

	c.SetCookie(h.sessions.ClearCookie())
	return Success(c, http.StatusOK, "logged out", nil)
}

// User handles GET /api/user requests.
func (h *AuthHandler) User(c echo.Context) error {
	identity, ok := middlewarepkg.IdentityFromContext(c)
	if !ok {
		return Error(c, http.StatusUnauthorized, "authentication required")
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err, "unable to load user")
	}
	return Success(c, http.StatusOK, "", dto.NewUserResponse(*user))
}

func loginResponse(result *service.AuthResult) dto.LoginResponse {
	return dto.LoginResponse{
		User:        dto.NewUserResponse(result.User),
		AccessToken: result.AccessToken,
		ExpiresAt:   result.ExpiresAt,
	}
}
