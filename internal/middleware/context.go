package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/provisionexpertax/taxportal/internal/entity"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUsername  = "username"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeySessionID = "session_id"
	ContextKeyRequestID = "request_id"
)

// Identity is the authenticated caller resolved by Authenticate.
type Identity struct {
	UserID    string
	Username  string
	Email     string
	Role      string
	SessionID string
}

// IdentityFromContext returns the caller's identity, if any.
func IdentityFromContext(c echo.Context) (Identity, bool) {
	userID, _ := c.Get(ContextKeyUserID).(string)
	if userID == "" {
		return Identity{}, false
	}
	username, _ := c.Get(ContextKeyUsername).(string)
	email, _ := c.Get(ContextKeyUserEmail).(string)
	role, _ := c.Get(ContextKeyUserRole).(string)
	sessionID, _ := c.Get(ContextKeySessionID).(string)
	return Identity{UserID: userID, Username: username, Email: email, Role: role, SessionID: sessionID}, true
}

// IsAdmin reports whether the caller is an authenticated admin.
func IsAdmin(c echo.Context) bool {
	identity, ok := IdentityFromContext(c)
	return ok && identity.Role == entity.RoleAdmin
}

func setIdentity(c echo.Context, id Identity) {
	c.Set(ContextKeyUserID, id.UserID)
	c.Set(ContextKeyUsername, id.Username)
	c.Set(ContextKeyUserEmail, id.Email)
	c.Set(ContextKeyUserRole, id.Role)
	if id.SessionID != "" {
		c.Set(ContextKeySessionID, id.SessionID)
	}
}

func reject(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}
